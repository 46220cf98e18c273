package wasmrw

import "fmt"

const (
	externFunc   byte = 0x00
	externTable  byte = 0x01
	externMemory byte = 0x02
	externGlobal byte = 0x03
)

func readName(b []byte, pos int) (string, int, error) {
	n, next, err := readUvarint32(b, pos)
	if err != nil {
		return "", pos, err
	}
	pos = next
	if pos+int(n) > len(b) {
		return "", pos, fmt.Errorf("wasmrw: truncated name")
	}
	return string(b[pos : pos+int(n)]), pos + int(n), nil
}

func appendName(b []byte, s string) []byte {
	b = appendUvarint32(b, uint32(len(s)))
	return append(b, s...)
}

// appendMemoryImport appends one "bevy"-module memory import, as the
// rewriter's step 1 requires: limits {min: 0, max: none}, standard 64KiB
// wasm pages (no custom page-size proposal bit set — "page-size minimum"
// per spec §4.4/§6).
func appendMemoryImport(b []byte, moduleName, name string) []byte {
	b = appendName(b, moduleName)
	b = appendName(b, name)
	b = append(b, externMemory)
	b = append(b, 0x00) // limits flags: no max
	b = appendUvarint32(b, 0) // min pages
	return b
}

// augmentImportSection appends one memory import per entry in fieldNames to
// an existing import section payload (the count varuint followed by the
// original entries' raw bytes), without needing to decode the existing
// entries: only the leading vector count changes, and the new entries are
// appended verbatim after the untouched original bytes.
func augmentImportSection(payload []byte, importModule string, fieldNames []string) ([]byte, error) {
	count, pos, err := readUvarint32(payload, 0)
	if err != nil {
		return nil, fmt.Errorf("wasmrw: decode import count: %w", err)
	}
	rest := payload[pos:]

	out := appendUvarint32(nil, count+uint32(len(fieldNames)))
	out = append(out, rest...)
	for _, name := range fieldNames {
		out = appendMemoryImport(out, importModule, name)
	}
	return out, nil
}

// isImportSection reports whether id is the import section's id (2).
func isImportSection(id byte) bool { return id == 2 }

// isCodeSection reports whether id is the code section's id (10).
func isCodeSection(id byte) bool { return id == 10 }
