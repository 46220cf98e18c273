package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harmonize-build/harmonize/config"
	"github.com/harmonize-build/harmonize/manifest"
)

func TestDiscoverSources_OnlyTopLevelRustFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "count_frames.rs"), []byte("// mod"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.rs"), 0o755))

	sources, err := discoverSources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, filepath.Join(dir, "count_frames.rs"), sources[0].path)
	require.Len(t, sources[0].crates, 4)
}

func TestDiscoverSources_MissingDirErrors(t *testing.T) {
	_, err := discoverSources(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestManifestExportPackages_OnlyExportManifestCrates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rs"), nil, 0o644))
	sources, err := discoverSources(dir)
	require.NoError(t, err)

	pkgs := manifestExportPackages(sources)
	require.Len(t, pkgs, 1)
	require.Contains(t, pkgs[0], "_export_manifest")

	require.Len(t, allPackages(sources), 4)
}

func TestManifestsEqual(t *testing.T) {
	a := manifest.ModManifest{WasmHash: manifest.WasmHash{1, 2, 3}}
	b := manifest.ModManifest{WasmHash: manifest.WasmHash{1, 2, 3}}
	require.True(t, manifestsEqual(a, b))
	b.WasmHash[0] = 9
	require.False(t, manifestsEqual(a, b))
}

func TestManifestDrifted_MissingPriorCountsAsDrift(t *testing.T) {
	d := &Driver{cfg: config.NewConfig(), destDir: t.TempDir()}
	require.True(t, d.manifestDrifted("missing_stem", manifest.ModManifest{}))
}

func TestManifestDrifted_IgnoresWasmHashDifference(t *testing.T) {
	destDir := t.TempDir()
	d := &Driver{cfg: config.NewConfig(), destDir: destDir}

	prev := manifest.ModManifest{WasmHash: manifest.WasmHash{1}}
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "m.manifest"), manifest.Encode(prev), 0o644))

	// Extracted manifests always come out of manifest.Decode, so the
	// comparison runs between two decoded values.
	next, err := manifest.Decode(manifest.Encode(manifest.ModManifest{WasmHash: manifest.WasmHash{2}}))
	require.NoError(t, err)
	require.False(t, d.manifestDrifted("m", next))
}

func TestManifestDrifted_DetectsRealChange(t *testing.T) {
	destDir := t.TempDir()
	d := &Driver{cfg: config.NewConfig(), destDir: destDir}

	prev := manifest.ModManifest{Features: []manifest.FeatureDescriptor{{Name: "a"}}}
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "m.manifest"), manifest.Encode(prev), 0o644))

	next := manifest.ModManifest{Features: []manifest.FeatureDescriptor{{Name: "b"}}}
	require.True(t, d.manifestDrifted("m", next))
}

func TestRenderManifestText_IncludesFeatureNames(t *testing.T) {
	m := manifest.ModManifest{Features: []manifest.FeatureDescriptor{{Name: "count_frames"}}}
	text := renderManifestText(m)
	require.Contains(t, text, "count_frames")
}
