// Package address implements the deterministic, downward-from-top placement
// of host-visible resource types into the 32-bit wasm address space (§4.3).
package address

import "github.com/harmonize-build/harmonize/typesig"

// topCursor is the starting cursor: 2^32 - 1.
const topCursor uint64 = 0xFFFFFFFF

// Range is a half-open byte range [Lo, Hi).
type Range struct {
	Lo, Hi uint64
}

// Size returns Hi - Lo.
func (r Range) Size() uint64 { return r.Hi - r.Lo }

// Contains reports whether addr falls within [Lo, Hi).
func (r Range) Contains(addr uint64) bool {
	return addr >= r.Lo && addr < r.Hi
}

// TypeAddress pairs a qualifying TypeSignature with its assigned address
// range.
type TypeAddress struct {
	Signature typesig.TypeSignature
	Address   Range
}

// MemoryIndex returns the wasm memory index this address range is bound to:
// position i in the allocator's output corresponds to memory index i+1
// (index 0 is the module's default/general memory), per §4.3.
func MemoryIndex(position int) uint32 { return uint32(position) + 1 }

// Qualifies reports whether sig is eligible for address assignment: known
// size and align, size and align both positive, align a power of two no
// greater than 128, and size a multiple of align.
func Qualifies(sig typesig.TypeSignature) bool {
	if sig.Size == nil || sig.Align == nil {
		return false
	}
	size, align := *sig.Size, *sig.Align
	if size == 0 || align == 0 || align > 128 {
		return false
	}
	if align&(align-1) != 0 {
		return false
	}
	return size%align == 0
}

// Allocate maps an ordered slice of TypeSignature to the TypeAddress for
// each qualifying signature, in input order, per the downward-packing
// policy of §4.3. Non-qualifying signatures are silently skipped.
//
// The output depends only on sigs: Allocate carries no state across calls,
// so the same input always yields the same addresses.
func Allocate(sigs []typesig.TypeSignature) []TypeAddress {
	cursor := topCursor
	out := make([]TypeAddress, 0, len(sigs))
	for _, sig := range sigs {
		if !Qualifies(sig) {
			continue
		}
		size, align := uint64(*sig.Size), uint64(*sig.Align)
		cursor -= size
		cursor -= cursor % align
		out = append(out, TypeAddress{
			Signature: sig,
			Address:   Range{Lo: cursor, Hi: cursor + size},
		})
	}
	return out
}

// Find returns the first TypeAddress in addrs whose range contains addr, and
// its position, or ok=false if none does. addrs is expected to come from a
// single call to Allocate (i.e. still in allocation order), matching the
// post-processor's "first TypeAddress whose range contains" lookup (§4.4).
func Find(addrs []TypeAddress, addr uint64) (pos int, ta TypeAddress, ok bool) {
	for i, a := range addrs {
		if a.Address.Contains(addr) {
			return i, a, true
		}
	}
	return 0, TypeAddress{}, false
}
