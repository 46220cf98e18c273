package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	require.Equal(t, LevelError, classify("error[E0425]: cannot find value"))
	require.Equal(t, LevelWarn, classify("warning: unused variable"))
	require.Equal(t, LevelInfo, classify("   Compiling count_frames v0.1.0"))
}

func TestBuild_NonexistentBinaryReturnsError(t *testing.T) {
	d := New(".", "harmonize-build-toolchain-does-not-exist", nil)
	_, err := d.Build(context.Background(), []string{"count_frames_export_manifest"})
	require.Error(t, err)
}
