package wasmrw

import "fmt"

// multiMemoryFlag is the bit in a memarg's flags field that signals an
// explicit memory index follows, per the WebAssembly multi-memory proposal.
// The rewriter always sets this bit on any instruction it retargets, adding
// the memidx field if the original encoding didn't carry one.
const multiMemoryFlag uint32 = 0x40

// MemArg is a load/store instruction's memory argument.
type MemArg struct {
	Align      uint32 // alignment hint, low bits of the original flags field
	MemoryIndex uint32
	Offset     uint32
	// explicitMemIdx records whether the original encoding already carried
	// an explicit memory index, so re-encoding a memarg that was never
	// retargeted round-trips byte-for-byte.
	explicitMemIdx bool
}

// Instruction is one decoded wasm instruction. Fields are populated
// according to Opcode; Raw holds the exact original bytes (including the
// opcode byte) for instructions the rewriter passes through unexamined, so
// re-encoding such an instruction is always a faithful round-trip.
type Instruction struct {
	Opcode    Opcode
	I32Const  int32   // valid iff Opcode == OpI32Const
	MemArg    *MemArg // valid iff IsMemAccess(Opcode)
	Retargeted bool
	Raw       []byte
}

// decodeInstruction decodes one instruction starting at b[pos]. Decoding
// does not need to track nested block structure since a function body's
// total length is already known from its size prefix (see
// Module.DecodeFunctions).
func decodeInstruction(b []byte, pos int) (Instruction, int, error) {
	start := pos
	if pos >= len(b) {
		return Instruction{}, pos, fmt.Errorf("wasmrw: truncated instruction stream")
	}
	op := Opcode(b[pos])
	pos++

	switch {
	case op == OpBlock || op == OpLoop || op == OpIf:
		// blocktype: either 0x40 (empty), a valtype byte, or a signed LEB128
		// type index. All three are representable as one signed LEB128 read.
		_, next, err := readVarint32(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next

	case op == OpBr || op == OpBrIf || op == OpCall ||
		op == OpLocalGet || op == OpLocalSet || op == OpLocalTee ||
		op == OpGlobalGet || op == OpGlobalSet ||
		op == OpTableGet || op == OpTableSet ||
		op == OpMemorySize || op == OpMemoryGrow ||
		op == OpRefFunc:
		_, next, err := readUvarint32(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next

	case op == OpCallIndir:
		for i := 0; i < 2; i++ {
			_, next, err := readUvarint32(b, pos)
			if err != nil {
				return Instruction{}, pos, err
			}
			pos = next
		}

	case op == OpBrTable:
		count, next, err := readUvarint32(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next
		for i := uint32(0); i < count; i++ {
			_, next, err := readUvarint32(b, pos)
			if err != nil {
				return Instruction{}, pos, err
			}
			pos = next
		}
		_, next, err = readUvarint32(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next

	case op == OpSelectT:
		count, next, err := readUvarint32(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next + int(count) // one byte (valtype) per entry

	case op == OpRefNull:
		pos++ // one reftype byte

	case op == OpI32Const:
		v, next, err := readVarint32(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next
		return Instruction{Opcode: op, I32Const: v, Raw: append([]byte(nil), b[start:pos]...)}, pos, nil

	case op == OpI64Const:
		_, next, err := readVarint64(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next

	case op == OpF32Const:
		if pos+4 > len(b) {
			return Instruction{}, pos, fmt.Errorf("wasmrw: truncated f32.const")
		}
		pos += 4

	case op == OpF64Const:
		if pos+8 > len(b) {
			return Instruction{}, pos, fmt.Errorf("wasmrw: truncated f64.const")
		}
		pos += 8

	case IsMemAccess(op):
		memArg, next, err := decodeMemArg(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next
		return Instruction{Opcode: op, MemArg: &memArg, Raw: append([]byte(nil), b[start:pos]...)}, pos, nil

	case op == OpMiscPrefix:
		next, err := skipMiscInstruction(b, pos)
		if err != nil {
			return Instruction{}, pos, err
		}
		pos = next

	default:
		// Unreachable/nop/else/end/drop/select/ref.is_null, every comparison,
		// arithmetic, conversion, and sign-extension opcode: no immediate.
		if !isPlainNumeric(op) && op != OpUnreachable && op != OpNop && op != OpElse &&
			op != OpEnd && op != OpReturn && op != OpDrop && op != OpSelect && op != OpRefIsNull {
			return Instruction{}, pos, fmt.Errorf("wasmrw: unsupported opcode %#x at byte %d", byte(op), start)
		}
	}

	return Instruction{Opcode: op, Raw: append([]byte(nil), b[start:pos]...)}, pos, nil
}

// decodeMemArg decodes a load/store's memarg: flags (align, with the
// multi-memory flag bit), an optional explicit memory index, then the byte
// offset.
func decodeMemArg(b []byte, pos int) (MemArg, int, error) {
	flags, pos, err := readUvarint32(b, pos)
	if err != nil {
		return MemArg{}, pos, err
	}
	m := MemArg{Align: flags &^ multiMemoryFlag}
	if flags&multiMemoryFlag != 0 {
		m.explicitMemIdx = true
		idx, next, err := readUvarint32(b, pos)
		if err != nil {
			return MemArg{}, pos, err
		}
		m.MemoryIndex = idx
		pos = next
	}
	offset, next, err := readUvarint32(b, pos)
	if err != nil {
		return MemArg{}, pos, err
	}
	m.Offset = offset
	return m, next, nil
}

// encode appends i's encoded form to b. Instructions never mutated by the
// rewriter re-emit their captured Raw bytes unchanged; a retargeted memarg
// is re-encoded from its (possibly now-explicit) MemoryIndex/Offset/Align.
func (i Instruction) encode(b []byte) []byte {
	if i.MemArg != nil && i.Retargeted {
		b = append(b, byte(i.Opcode))
		flags := i.MemArg.Align | multiMemoryFlag
		b = appendUvarint32(b, flags)
		b = appendUvarint32(b, i.MemArg.MemoryIndex)
		b = appendUvarint32(b, i.MemArg.Offset)
		return b
	}
	return append(b, i.Raw...)
}

// skipMiscInstruction consumes one 0xFC-prefixed "misc" instruction (the
// saturating truncation, bulk memory, and table-manipulation opcodes),
// returning the offset just past it. Only the common subset rustc/LLVM
// toolchains emit for a wasm32 ECS plugin is handled; anything else is a
// decode error rather than a silent guess, per §4.4's "deliberately
// shallow" scope.
func skipMiscInstruction(b []byte, pos int) (int, error) {
	sub, pos, err := readUvarint32(b, pos)
	if err != nil {
		return pos, err
	}
	switch sub {
	case 0, 1, 2, 3, 4, 5, 6, 7: // *.trunc_sat_*
		return pos, nil
	case 9, 13, 15, 16, 17: // data.drop, elem.drop, table.grow, table.size, table.fill
		_, pos, err = readUvarint32(b, pos)
		return pos, err
	case 8, 10, 11, 12, 14: // memory.init, memory.copy, memory.fill, table.init, table.copy
		n := 1
		if sub == 8 || sub == 10 || sub == 12 || sub == 14 {
			n = 2
		}
		for j := 0; j < n; j++ {
			_, pos, err = readUvarint32(b, pos)
			if err != nil {
				return pos, err
			}
		}
		return pos, nil
	default:
		return pos, fmt.Errorf("wasmrw: unsupported misc opcode 0xfc %d", sub)
	}
}
