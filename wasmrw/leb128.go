// Package wasmrw is the wasm post-processor (§4.4): it augments a compiled
// module's import section with one memory import per resource type, then
// walks every function body retargeting load/store instructions to the
// matching per-type memory, using the "preceding i32.const" convention the
// scaffold establishes. It is deliberately shallow — no dataflow analysis,
// just the single-constant carry described in the design.
package wasmrw

import "fmt"

// readUvarint32 reads an unsigned LEB128-encoded 32-bit integer starting at
// b[pos], returning the value, the new offset, and an error on truncation or
// overflow.
func readUvarint32(b []byte, pos int) (uint32, int, error) {
	var result uint32
	var shift uint
	for {
		if pos >= len(b) {
			return 0, pos, fmt.Errorf("wasmrw: truncated uvarint")
		}
		c := b[pos]
		pos++
		if shift >= 32 && c&0x7f != 0 {
			return 0, pos, fmt.Errorf("wasmrw: uvarint overflow")
		}
		result |= uint32(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, pos, nil
		}
		shift += 7
	}
}

// readUvarint64 reads an unsigned LEB128-encoded 64-bit integer.
func readUvarint64(b []byte, pos int) (uint64, int, error) {
	var result uint64
	var shift uint
	for {
		if pos >= len(b) {
			return 0, pos, fmt.Errorf("wasmrw: truncated uvarint")
		}
		c := b[pos]
		pos++
		result |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, pos, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, pos, fmt.Errorf("wasmrw: uvarint overflow")
		}
	}
}

// readVarint32 reads a signed LEB128-encoded 32-bit integer, per the wasm
// binary format's i32.const immediate encoding.
func readVarint32(b []byte, pos int) (int32, int, error) {
	var result int64
	var shift uint
	var c byte
	for {
		if pos >= len(b) {
			return 0, pos, fmt.Errorf("wasmrw: truncated varint")
		}
		c = b[pos]
		pos++
		result |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	if shift < 64 && c&0x40 != 0 {
		result |= -int64(1) << shift
	}
	return int32(result), pos, nil
}

// readVarint64 reads a signed LEB128-encoded 64-bit integer.
func readVarint64(b []byte, pos int) (int64, int, error) {
	var result int64
	var shift uint
	var c byte
	for {
		if pos >= len(b) {
			return 0, pos, fmt.Errorf("wasmrw: truncated varint")
		}
		c = b[pos]
		pos++
		result |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	if shift < 64 && c&0x40 != 0 {
		result |= -int64(1) << shift
	}
	return result, pos, nil
}

func appendUvarint32(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func appendUvarint64(b []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func appendVarint32(b []byte, v int32) []byte {
	val := int64(v)
	for {
		c := byte(val & 0x7f)
		val >>= 7
		signBitSet := c&0x40 != 0
		if (val == 0 && !signBitSet) || (val == -1 && signBitSet) {
			b = append(b, c)
			return b
		}
		b = append(b, c|0x80)
	}
}

func appendVarint64(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		signBitSet := c&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			b = append(b, c)
			return b
		}
		b = append(b, c|0x80)
	}
}
