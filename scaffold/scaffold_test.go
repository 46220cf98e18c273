package scaffold

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackageName_Deterministic(t *testing.T) {
	require.Equal(t, PackageName("mods/CountFrames.rs"), PackageName("mods/CountFrames.rs"))
}

func TestPackageName_LowercasesAndStripsExtension(t *testing.T) {
	name := PackageName("mods/CountFrames.rs")
	require.True(t, name == "countframes_"+name[len("countframes_"):])
	require.Len(t, name, len("countframes_")+8)
}

func TestCrates_FourCrateKindsInOrder(t *testing.T) {
	crates := Crates("mods/count_frames.rs")
	require.Len(t, crates, 4)
	suffixes := []string{"_source", "_imports", "_export_manifest", "_export_systems"}
	for i, c := range crates {
		require.Contains(t, c.Name, suffixes[i])
	}
}
