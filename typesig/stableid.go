// Package typesig describes the reflected shape of a mod's declared types,
// independent of the language or reflection library that produced them.
//
// A StableId identifies a type across builds and machines by name rather than
// by any compiler-assigned or process-local identifier, so that a manifest
// built today can be compared against one built yesterday.
package typesig

import (
	"fmt"
	"hash/fnv"
)

// StableId is the identity of a reflected type: its declaring crate (or
// package) plus its short type name. Two StableIds are equal iff both fields
// are equal; there is no notion of a "canonical" form beyond that.
type StableId struct {
	CrateName string
	Name      string
}

// NewStableId builds a StableId from its two components.
func NewStableId(crateName, name string) StableId {
	return StableId{CrateName: crateName, Name: name}
}

// String renders the StableId the way the rewriter's memory import names
// do: "<crate_name>::<type_name>". (The wire format writes the two
// components as separate strings.)
func (id StableId) String() string {
	return fmt.Sprintf("%s::%s", id.CrateName, id.Name)
}

// SystemId is a 64-bit deterministic hash of a system function's identity.
// Two distinct system functions yield distinct SystemIds with overwhelming
// probability; the same function always yields the same id within a build.
type SystemId uint64

// NewSystemId derives a SystemId from the stable identity of a system
// function. Callers pass whatever uniquely names the function across builds
// — typically "<crate>::<package path>::<function name>" — since Go has no
// stable runtime type identifier equivalent to Rust's TypeId for a bare
// function value.
//
// The hash is FNV-1a, chosen for being a fixed, dependency-free, non-
// cryptographic hash with good distribution for short strings; it is not
// meant to resist adversarial collisions, only accidental ones.
func NewSystemId(identity string) SystemId {
	h := fnv.New64a()
	_, _ = h.Write([]byte(identity))
	return SystemId(h.Sum64())
}
