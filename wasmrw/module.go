package wasmrw

import (
	"bytes"
	"fmt"
)

var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6D}
var wasmVersion = []byte{0x01, 0x00, 0x00, 0x00}

// section is one top-level wasm section, kept as opaque bytes unless it is
// the import or code section, which the rewriter needs to inspect.
type section struct {
	id      byte
	payload []byte
}

// Module is a parsed wasm binary: the magic/version header plus its
// sections in original order. Every section other than import (id 2) and
// code (id 10) is carried as an opaque byte blob — the rewriter's scope
// never requires understanding them (§4.4's "deliberately shallow" design).
type Module struct {
	sections []section
}

// DecodeModule parses the top-level section framing of a wasm binary. It
// does not validate the module; malformed section framing is the only
// decode error surfaced.
func DecodeModule(data []byte) (*Module, error) {
	if len(data) < 8 || !bytes.Equal(data[:4], wasmMagic) {
		return nil, fmt.Errorf("wasmrw: not a wasm binary (bad magic)")
	}
	if !bytes.Equal(data[4:8], wasmVersion) {
		return nil, fmt.Errorf("wasmrw: unsupported wasm version")
	}

	m := &Module{}
	pos := 8
	for pos < len(data) {
		id := data[pos]
		pos++
		size, next, err := readUvarint32(data, pos)
		if err != nil {
			return nil, fmt.Errorf("wasmrw: decode section %d size: %w", id, err)
		}
		pos = next
		if pos+int(size) > len(data) {
			return nil, fmt.Errorf("wasmrw: section %d payload overruns module", id)
		}
		m.sections = append(m.sections, section{id: id, payload: data[pos : pos+int(size)]})
		pos += int(size)
	}
	return m, nil
}

// Encode serializes m back into a wasm binary.
func (m *Module) Encode() []byte {
	out := append([]byte{}, wasmMagic...)
	out = append(out, wasmVersion...)
	for _, s := range m.sections {
		out = append(out, s.id)
		out = appendUvarint32(out, uint32(len(s.payload)))
		out = append(out, s.payload...)
	}
	return out
}

// importSection returns the raw payload of the module's import section, and
// whether one is present.
func (m *Module) importSection() (int, []byte, bool) {
	for i, s := range m.sections {
		if isImportSection(s.id) {
			return i, s.payload, true
		}
	}
	return -1, nil, false
}

// codeSection returns the raw payload of the module's code section, and
// whether one is present.
func (m *Module) codeSection() (int, []byte, bool) {
	for i, s := range m.sections {
		if isCodeSection(s.id) {
			return i, s.payload, true
		}
	}
	return -1, nil, false
}

// DecodeFunctions decodes every function body in the code section.
func (m *Module) DecodeFunctions() ([]Function, error) {
	_, payload, ok := m.codeSection()
	if !ok {
		return nil, nil
	}
	count, pos, err := readUvarint32(payload, 0)
	if err != nil {
		return nil, fmt.Errorf("wasmrw: decode function count: %w", err)
	}
	fns := make([]Function, count)
	for i := range fns {
		size, next, err := readUvarint32(payload, pos)
		if err != nil {
			return nil, fmt.Errorf("wasmrw: decode function %d size: %w", i, err)
		}
		pos = next
		if pos+int(size) > len(payload) {
			return nil, fmt.Errorf("wasmrw: function %d body overruns code section", i)
		}
		body := payload[pos : pos+int(size)]
		pos += int(size)

		fn, err := decodeFunction(body)
		if err != nil {
			return nil, fmt.Errorf("wasmrw: function %d: %w", i, err)
		}
		fns[i] = fn
	}
	return fns, nil
}

// ReplaceFunctions re-encodes the code section from fns, replacing whatever
// was there before.
func (m *Module) ReplaceFunctions(fns []Function) {
	idx, _, ok := m.codeSection()
	payload := appendUvarint32(nil, uint32(len(fns)))
	for _, fn := range fns {
		body := fn.encode()
		payload = appendUvarint32(payload, uint32(len(body)))
		payload = append(payload, body...)
	}
	if ok {
		m.sections[idx].payload = payload
		return
	}
	m.sections = append(m.sections, section{id: 10, payload: payload})
}

// AugmentImports appends one memory import per name in fieldNames, under
// importModule, to the module's import section (creating one if absent).
func (m *Module) AugmentImports(importModule string, fieldNames []string) error {
	if len(fieldNames) == 0 {
		return nil
	}
	idx, payload, ok := m.importSection()
	if !ok {
		newPayload := appendUvarint32(nil, uint32(len(fieldNames)))
		for _, name := range fieldNames {
			newPayload = appendMemoryImport(newPayload, importModule, name)
		}
		// Import section (id 2) must precede function/table/memory/global
		// sections; inserting at the front of the section list is always
		// safe since those only ever follow it in a well-formed module.
		m.sections = append([]section{{id: 2, payload: newPayload}}, m.sections...)
		return nil
	}
	newPayload, err := augmentImportSection(payload, importModule, fieldNames)
	if err != nil {
		return err
	}
	m.sections[idx].payload = newPayload
	return nil
}
