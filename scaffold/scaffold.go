// Package scaffold describes the four satellite crates the pipeline driver
// generates around a plug-in source file (spec §2 item 5). Rendering
// templates into those crates' actual source text is out of scope (spec §1
// non-goals: "source-to-scaffold template rendering" is an external
// collaborator) — this package only names the shape each crate must take
// and derives the deterministic package name the pipeline driver needs
// before any rendering happens (spec §4.6 step 2).
package scaffold

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// CrateKind names one of the four generated satellite crates.
type CrateKind uint8

const (
	// CrateSource re-exports the plug-in's own source, unmodified, as a
	// library crate the other three crates depend on.
	CrateSource CrateKind = iota
	// CrateImports declares the `bevy_harmonize`/`bevy` wasm imports the
	// plug-in's generated code calls into, including one `const PTR`
	// placeholder per resource type once addresses are known (post-§4.3).
	CrateImports
	// CrateExportManifest links CrateSource and CrateImports into a binary
	// exposing `run() -> u64` (spec §4.7/§6), used only in the first build
	// pass.
	CrateExportManifest
	// CrateExportSystems links CrateSource and CrateImports into a binary
	// exposing one callable per declared system (spec §6), used in the
	// second build pass once the manifest is known.
	CrateExportSystems
)

func (k CrateKind) String() string {
	switch k {
	case CrateSource:
		return "_source"
	case CrateImports:
		return "_imports"
	case CrateExportManifest:
		return "_export_manifest"
	case CrateExportSystems:
		return "_export_systems"
	default:
		return "unknown"
	}
}

// allKinds lists every generated crate kind in the order the pipeline driver
// emits them.
var allKinds = []CrateKind{CrateSource, CrateImports, CrateExportManifest, CrateExportSystems}

// PackageName derives the deterministic package name for a plug-in source
// file, per spec §4.6 step 2: "<lowercased filename>_<hex first 4 bytes of
// SHA-256(path)>".
func PackageName(path string) string {
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}
	base = strings.TrimSuffix(base, ".rs")
	sum := sha256.Sum256([]byte(path))
	return fmt.Sprintf("%s_%s", strings.ToLower(base), hex.EncodeToString(sum[:4]))
}

// Crate is one satellite crate's generated package name, derived from a
// plug-in's deterministic base name and its CrateKind suffix.
type Crate struct {
	Kind CrateKind
	Name string
}

// Crates returns the four satellite crate descriptors (kind and package
// name) for a plug-in source at path. Only names are derived; no crate
// contents, addresses, or system lists are rendered here.
func Crates(path string) []Crate {
	pkg := PackageName(path)
	crates := make([]Crate, len(allKinds))
	for i, k := range allKinds {
		crates[i] = Crate{Kind: k, Name: pkg + k.String()}
	}
	return crates
}
