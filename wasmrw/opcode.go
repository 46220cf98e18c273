package wasmrw

// Opcode is a single wasm instruction opcode byte. Constant names and values
// follow the WebAssembly core specification's binary encoding.
type Opcode byte

const (
	OpUnreachable Opcode = 0x00
	OpNop         Opcode = 0x01
	OpBlock       Opcode = 0x02
	OpLoop        Opcode = 0x03
	OpIf          Opcode = 0x04
	OpElse        Opcode = 0x05
	OpEnd         Opcode = 0x0B
	OpBr          Opcode = 0x0C
	OpBrIf        Opcode = 0x0D
	OpBrTable     Opcode = 0x0E
	OpReturn      Opcode = 0x0F
	OpCall        Opcode = 0x10
	OpCallIndir   Opcode = 0x11

	OpDrop     Opcode = 0x1A
	OpSelect   Opcode = 0x1B
	OpSelectT  Opcode = 0x1C

	OpLocalGet  Opcode = 0x20
	OpLocalSet  Opcode = 0x21
	OpLocalTee  Opcode = 0x22
	OpGlobalGet Opcode = 0x23
	OpGlobalSet Opcode = 0x24
	OpTableGet  Opcode = 0x25
	OpTableSet  Opcode = 0x26

	// Loads, all taking a memarg (align/offset[/memidx]).
	OpI32Load    Opcode = 0x28
	OpI64Load    Opcode = 0x29
	OpF32Load    Opcode = 0x2A
	OpF64Load    Opcode = 0x2B
	OpI32Load8S  Opcode = 0x2C
	OpI32Load8U  Opcode = 0x2D
	OpI32Load16S Opcode = 0x2E
	OpI32Load16U Opcode = 0x2F
	OpI64Load8S  Opcode = 0x30
	OpI64Load8U  Opcode = 0x31
	OpI64Load16S Opcode = 0x32
	OpI64Load16U Opcode = 0x33
	OpI64Load32S Opcode = 0x34
	OpI64Load32U Opcode = 0x35

	// Stores, all taking a memarg.
	OpI32Store   Opcode = 0x36
	OpI64Store   Opcode = 0x37
	OpF32Store   Opcode = 0x38
	OpF64Store   Opcode = 0x39
	OpI32Store8  Opcode = 0x3A
	OpI32Store16 Opcode = 0x3B
	OpI64Store8  Opcode = 0x3C
	OpI64Store16 Opcode = 0x3D
	OpI64Store32 Opcode = 0x3E

	OpMemorySize Opcode = 0x3F
	OpMemoryGrow Opcode = 0x40

	OpI32Const Opcode = 0x41
	OpI64Const Opcode = 0x42
	OpF32Const Opcode = 0x43
	OpF64Const Opcode = 0x44

	OpRefNull   Opcode = 0xD0
	OpRefIsNull Opcode = 0xD1
	OpRefFunc   Opcode = 0xD2

	OpMiscPrefix Opcode = 0xFC
)

// IsMemAccess reports whether op is one of the load/store instructions that
// carry a memarg (and are therefore candidates for retargeting in §4.4 step
// 2).
func IsMemAccess(op Opcode) bool {
	return (op >= OpI32Load && op <= OpI64Load32U) || (op >= OpI32Store && op <= OpI64Store32)
}

// isPlainNumeric reports whether op is one of the no-immediate numeric
// test/relational/unary/binary/conversion opcodes (wasm core spec 0x45-0xC4,
// a range that includes the bare sign-extension opcodes 0xC0-0xC4).
func isPlainNumeric(op Opcode) bool {
	return op >= 0x45 && op <= 0xC4
}
