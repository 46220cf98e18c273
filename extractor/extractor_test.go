package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackPointerLen_Unpacks(t *testing.T) {
	packed := packPointerLen(0x1000, 0x20)
	ptr := uint32(packed)
	length := uint32(packed >> 32)
	require.EqualValues(t, 0x1000, ptr)
	require.EqualValues(t, 0x20, length)
}

func TestExtract_RejectsMalformedWasm(t *testing.T) {
	_, err := Extract([]byte("not a wasm module"), nil)
	require.Error(t, err)
}
