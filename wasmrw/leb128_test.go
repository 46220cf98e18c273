package wasmrw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUvarint32_RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 300, 0xFFFFFFFF} {
		b := appendUvarint32(nil, v)
		got, pos, err := readUvarint32(b, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(b), pos)
	}
}

func TestVarint32_RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 63, -64, 64, -65, 1000000, -1000000, -512} {
		b := appendVarint32(nil, v)
		got, pos, err := readVarint32(b, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(b), pos)
	}
}

func TestVarint64_RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		b := appendVarint64(nil, v)
		got, pos, err := readVarint64(b, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(b), pos)
	}
}

func TestReadUvarint32_TruncatedErrors(t *testing.T) {
	_, _, err := readUvarint32([]byte{0x80}, 0)
	require.Error(t, err)
}
