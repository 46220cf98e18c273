package pipeline

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/harmonize-build/harmonize/manifest"
)

// manifestsEqual reports value equality between two manifests, per spec
// §4.6 step 5's drift check ("detected by value inequality against prior").
func manifestsEqual(a, b manifest.ModManifest) bool {
	return reflect.DeepEqual(a, b)
}

// renderManifestText produces the human-readable ".manifest.txt" debug twin
// named in spec §6.
func renderManifestText(m manifest.ModManifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "wasm_hash: %x\n", m.WasmHash)
	fmt.Fprintf(&b, "types: %d\n", len(m.Types))
	for _, t := range m.Types {
		fmt.Fprintf(&b, "  %s (%s)\n", t.Id.String(), t.Kind.String())
	}
	fmt.Fprintf(&b, "features: %d\n", len(m.Features))
	for _, f := range m.Features {
		fmt.Fprintf(&b, "  %s: %d resource(s), %d schedule(s)\n", f.Name, len(f.Resources), len(f.Schedules))
	}
	return b.String()
}
