package manifest

import (
	"encoding/hex"
	"fmt"

	digest "github.com/opencontainers/go-digest"
)

// HashWasm computes the truncated SHA-256 content hash spec §3 requires of
// wasm_hash: the first 16 bytes of the full 32-byte digest.
//
// go-digest (grounded on moby-moby, which uses it throughout for
// content-addressed layer/image hashes) is used here instead of calling
// crypto/sha256 directly so the hashing concern is wired through the same
// content-addressing abstraction the rest of the ecosystem uses.
func HashWasm(wasmBytes []byte) WasmHash {
	d := digest.SHA256.FromBytes(wasmBytes)
	var out WasmHash
	raw, err := hex.DecodeString(d.Encoded())
	if err != nil {
		// digest.SHA256.FromBytes always yields valid hex; this cannot happen.
		panic(fmt.Sprintf("manifest: corrupt digest encoding: %v", err))
	}
	copy(out[:], raw[:WasmHashSize])
	return out
}

// VerifyWasmHash reports whether wasmBytes hashes to want.
func VerifyWasmHash(wasmBytes []byte, want WasmHash) bool {
	return HashWasm(wasmBytes) == want
}
