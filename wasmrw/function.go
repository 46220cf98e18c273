package wasmrw

import "fmt"

// localGroup is one run of locals sharing a value type, as declared at the
// top of a function body.
type localGroup struct {
	count   uint32
	valType byte
}

// Function is one decoded entry of the code section: its raw locals
// declaration (passed through unchanged — the rewriter has no reason to
// touch it) and its decoded instruction stream.
type Function struct {
	locals       []localGroup
	Instructions []Instruction
}

func decodeFunction(body []byte) (Function, error) {
	var fn Function
	pos := 0
	groupCount, next, err := readUvarint32(body, pos)
	if err != nil {
		return fn, fmt.Errorf("wasmrw: decode locals count: %w", err)
	}
	pos = next
	fn.locals = make([]localGroup, groupCount)
	for i := range fn.locals {
		count, next, err := readUvarint32(body, pos)
		if err != nil {
			return fn, fmt.Errorf("wasmrw: decode local group %d: %w", i, err)
		}
		pos = next
		if pos >= len(body) {
			return fn, fmt.Errorf("wasmrw: truncated local group %d", i)
		}
		valType := body[pos]
		pos++
		fn.locals[i] = localGroup{count: count, valType: valType}
	}

	for pos < len(body) {
		instr, next, err := decodeInstruction(body, pos)
		if err != nil {
			return fn, fmt.Errorf("wasmrw: decode instruction at byte %d: %w", pos, err)
		}
		fn.Instructions = append(fn.Instructions, instr)
		pos = next
	}
	return fn, nil
}

func (fn Function) encode() []byte {
	var b []byte
	b = appendUvarint32(b, uint32(len(fn.locals)))
	for _, g := range fn.locals {
		b = appendUvarint32(b, g.count)
		b = append(b, g.valType)
	}
	for _, instr := range fn.Instructions {
		b = instr.encode(b)
	}
	return b
}
