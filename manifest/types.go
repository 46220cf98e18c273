// Package manifest describes a mod's on-disk/in-memory manifest: the
// on-disk description of a mod's declared types, resources, and schedules,
// plus the content hash of its final post-processed wasm binary.
//
// BuildManifest (§4.2) derives a ModManifest from a schema.ConstSchema.
// Encode/Decode (§6) implement the manifest's fixed binary wire format.
package manifest

import (
	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/typesig"
)

// WasmHashSize is the byte length of a truncated SHA-256 content hash.
const WasmHashSize = 16

// WasmHash is a 16-byte truncated SHA-256 digest of a post-processed wasm
// binary.
type WasmHash [WasmHashSize]byte

// FeatureDescriptor is a named group of resources and schedules within a
// mod.
type FeatureDescriptor struct {
	Name      string
	Resources []ResourceDefault
	Schedules []schedule.Descriptor
}

// ResourceDefault pairs a resource's StableId with its default value,
// encoded with the binary codec.
type ResourceDefault struct {
	Type    typesig.StableId
	Default []byte
}

// ModManifest is the on-disk/in-memory description of a mod.
type ModManifest struct {
	WasmHash WasmHash
	Types    []typesig.TypeSignature
	Features []FeatureDescriptor
}
