package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashWasm_Deterministic(t *testing.T) {
	data := []byte("fake wasm bytes")
	require.Equal(t, HashWasm(data), HashWasm(data))
}

func TestHashWasm_DiffersOnDifferentInput(t *testing.T) {
	require.NotEqual(t, HashWasm([]byte("a")), HashWasm([]byte("b")))
}

func TestVerifyWasmHash(t *testing.T) {
	data := []byte("module bytes")
	want := HashWasm(data)
	require.True(t, VerifyWasmHash(data, want))
	require.False(t, VerifyWasmHash([]byte("other"), want))
}
