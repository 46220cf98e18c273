// Package pipeline orchestrates the build+load pipeline's discovery,
// two-pass compilation, manifest-drift detection, rewriting, and output
// placement steps (spec §4.6).
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/harmonize-build/harmonize/address"
	"github.com/harmonize-build/harmonize/config"
	"github.com/harmonize-build/harmonize/extractor"
	"github.com/harmonize-build/harmonize/manifest"
	"github.com/harmonize-build/harmonize/scaffold"
	"github.com/harmonize-build/harmonize/toolchain"
	"github.com/harmonize-build/harmonize/wasmrw"
)

// Driver runs one build cycle across every plug-in source under a
// config.Config's watch directory.
type Driver struct {
	cfg       *config.Config
	toolchain *toolchain.Driver
	destDir   string
	log       *logrus.Entry
}

// New returns a Driver that builds sources named in cfg using compilerBinary
// (e.g. "cargo"), placing finished artifacts in destDir.
func New(cfg *config.Config, compilerBinary, destDir string, log *logrus.Entry) *Driver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "pipeline")
	return &Driver{
		cfg:       cfg,
		toolchain: toolchain.New(cfg.CargoDir(), compilerBinary, log),
		destDir:   destDir,
		log:       log,
	}
}

// source is one discovered plug-in source file and its derived scaffold
// crate names.
type source struct {
	path   string
	crates []scaffold.Crate
}

// BuildResult reports, per source, whether it built successfully.
type BuildResult struct {
	Path string
	Err  error
}

// discoverSources lists every ".rs" file directly under watchDir, per spec
// §4.6 step 1 and §6 "one artifact triple per .rs file directly under the
// watch directory".
func discoverSources(watchDir string) ([]source, error) {
	entries, err := os.ReadDir(watchDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read watch dir %q: %w", watchDir, err)
	}
	var sources []source
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".rs") {
			continue
		}
		path := filepath.Join(watchDir, e.Name())
		sources = append(sources, source{path: path, crates: scaffold.Crates(path)})
	}
	return sources, nil
}

// manifestExportPackages returns the _export_manifest package name of each
// source, for the manifest-only fallback build (spec §4.6 step 4).
func manifestExportPackages(sources []source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		for _, c := range s.crates {
			if c.Kind == scaffold.CrateExportManifest {
				names = append(names, c.Name)
			}
		}
	}
	return names
}

// allPackages returns every generated crate's package name across all
// sources, for the single first-attempt build (spec §4.6 step 4).
func allPackages(sources []source) []string {
	var names []string
	for _, s := range sources {
		for _, c := range s.crates {
			names = append(names, c.Name)
		}
	}
	return names
}

// Run executes one full build cycle: discovery, first-pass build (with
// manifest-only fallback), per-source manifest extraction and drift
// detection, second-pass build of the _imports and _export_systems crates
// for drifted sources, wasm post-processing, and output placement. The
// crates' sources are not regenerated here; only the build is rerun.
func (d *Driver) Run(ctx context.Context) ([]BuildResult, error) {
	sources, err := discoverSources(d.cfg.WatchDir())
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, nil
	}

	if _, err := d.toolchain.Build(ctx, allPackages(sources)); err != nil {
		d.log.Warnf("pipeline: full build failed, falling back to manifest-only: %v", err)
		if _, err := d.toolchain.Build(ctx, manifestExportPackages(sources)); err != nil {
			return nil, fmt.Errorf("pipeline: manifest-only fallback also failed: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]BuildResult, len(sources))
	for i, s := range sources {
		i, s := i, s
		g.Go(func() error {
			results[i] = BuildResult{Path: s.path, Err: d.buildOne(gctx, s)}
			return nil // per-source errors are isolated (spec §7), never abort the group
		})
	}
	_ = g.Wait()

	return results, nil
}

// buildOne runs steps 5-7 of spec §4.6 for a single source: manifest
// extraction and drift check, conditional second-pass build, wasm
// rewriting, and artifact emission.
func (d *Driver) buildOne(ctx context.Context, s source) error {
	log := d.log.WithField("source", s.path)

	manifestWasmPath := d.crateOutputPath(s, scaffold.CrateExportManifest)
	manifestWasm, err := os.ReadFile(manifestWasmPath)
	if err != nil {
		return fmt.Errorf("read manifest wasm: %w", err)
	}

	extracted, err := extractor.Extract(manifestWasm, log)
	if err != nil {
		return fmt.Errorf("extract manifest: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(s.path), ".rs")
	drifted := d.manifestDrifted(stem, extracted)
	if drifted {
		log.Debugf("pipeline: manifest drift detected, rebuilding codegen crates")
		if _, err := d.toolchain.Build(ctx, []string{
			d.crateName(s, scaffold.CrateImports),
			d.crateName(s, scaffold.CrateExportSystems),
		}); err != nil {
			return fmt.Errorf("second-pass build: %w", err)
		}
	}

	systemsWasmPath := d.crateOutputPath(s, scaffold.CrateExportSystems)
	systemsWasm, err := os.ReadFile(systemsWasmPath)
	if err != nil {
		return fmt.Errorf("read systems wasm: %w", err)
	}

	addrs := address.Allocate(extracted.Types)
	rewritten, err := wasmrw.Rewrite(systemsWasm, addrs, log)
	if err != nil {
		return fmt.Errorf("rewrite wasm: %w", err)
	}

	extracted.WasmHash = manifest.HashWasm(rewritten.Wasm)

	if err := d.writeArtifacts(stem, rewritten, extracted); err != nil {
		return fmt.Errorf("emit artifacts: %w", err)
	}
	return nil
}

// manifestDrifted compares extracted against the manifest persisted from the
// previous build (if any); a missing or decode-failing prior manifest also
// counts as drift.
func (d *Driver) manifestDrifted(stem string, extracted manifest.ModManifest) bool {
	prevPath := filepath.Join(d.destDir, stem+".manifest")
	prevBytes, err := os.ReadFile(prevPath)
	if err != nil {
		return true
	}
	prev, err := manifest.Decode(prevBytes)
	if err != nil {
		return true
	}
	// wasm_hash is stamped after rewriting and is not part of the drift
	// comparison; only declared types/features matter here.
	prev.WasmHash, extracted.WasmHash = manifest.WasmHash{}, manifest.WasmHash{}
	return !manifestsEqual(prev, extracted)
}

func (d *Driver) crateName(s source, kind scaffold.CrateKind) string {
	for _, c := range s.crates {
		if c.Kind == kind {
			return c.Name
		}
	}
	return ""
}

// crateOutputPath is where the toolchain driver's build places a given
// crate's compiled wasm binary, inside the cargo directory's target dir.
func (d *Driver) crateOutputPath(s source, kind scaffold.CrateKind) string {
	return filepath.Join(d.cfg.CargoDir(), "target", "wasm32-unknown-unknown", "release", d.crateName(s, kind)+".wasm")
}

// writeArtifacts places the final .wasm/.manifest/.manifest.txt/.wasm.wat
// quadruple into the destination directory (spec §6).
func (d *Driver) writeArtifacts(stem string, rewritten wasmrw.Result, m manifest.ModManifest) error {
	if err := os.MkdirAll(d.destDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(d.destDir, stem+".wasm"), rewritten.Wasm, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(d.destDir, stem+".wasm.wat"), []byte(rewritten.Wat), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(d.destDir, stem+".manifest"), manifest.Encode(m), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(d.destDir, stem+".manifest.txt"), []byte(renderManifestText(m)), 0o644); err != nil {
		return err
	}
	return nil
}
