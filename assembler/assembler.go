// Package assembler pairs a post-processed wasm binary with its manifest,
// verifies content-hash integrity, loads every declared schedule, and
// instantiates the result under the runtime engine (spec §4.8).
package assembler

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-go/v14"
	"github.com/sirupsen/logrus"

	"github.com/harmonize-build/harmonize/manifest"
	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/typesig"
)

// LoadedFeature is one feature's resolved resources and schedules, ready
// for the host to drive.
type LoadedFeature struct {
	Name      string
	Resources map[typesig.StableId][]byte
	Schedules map[schedule.Label]*schedule.Loaded
}

// LoadedMod is a fully assembled mod: its features plus the live wasmtime
// instance backing them.
type LoadedMod struct {
	Fingerprint manifest.WasmHash
	Features    []LoadedFeature
	Store       *wasmtime.Store
	Instance    *wasmtime.Instance
}

// Assemble verifies wasmBytes against manifestBytes' embedded hash, builds
// every feature's loaded schedules, and instantiates wasmBytes under the
// pooling-allocation engine.
func Assemble(manifestBytes, wasmBytes []byte, log *logrus.Entry) (*LoadedMod, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "assembler")

	m, err := manifest.Decode(manifestBytes)
	if err != nil {
		return nil, fmt.Errorf("assembler: decode manifest: %w", err)
	}

	if !manifest.VerifyWasmHash(wasmBytes, m.WasmHash) {
		return nil, fmt.Errorf("assembler: wasm_hash mismatch: integrity failure")
	}

	features := make([]LoadedFeature, len(m.Features))
	for i, fd := range m.Features {
		lf, err := buildFeature(fd, log)
		if err != nil {
			return nil, fmt.Errorf("assembler: feature %q: %w", fd.Name, err)
		}
		features[i] = lf
	}

	engine, err := newEngine()
	if err != nil {
		return nil, fmt.Errorf("assembler: build engine: %w", err)
	}
	store := wasmtime.NewStore(engine)

	mod, err := wasmtime.NewModule(engine, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("assembler: parse module: %w", err)
	}

	linker := wasmtime.NewLinker(engine)
	instance, err := linker.Instantiate(store, mod)
	if err != nil {
		return nil, fmt.Errorf("assembler: instantiate: %w", err)
	}

	fingerprintSrc := append([]byte(nil), manifestBytes...)
	log.Debugf("assembler: assembled mod with %d feature(s)", len(features))

	return &LoadedMod{
		Fingerprint: manifest.HashWasm(fingerprintSrc),
		Features:    features,
		Store:       store,
		Instance:    instance,
	}, nil
}

// buildFeature groups a FeatureDescriptor's resources by StableId and
// invokes the schedule loader (§4.5) for each of its schedule descriptors,
// grouped by label.
func buildFeature(fd manifest.FeatureDescriptor, log *logrus.Entry) (LoadedFeature, error) {
	resources := make(map[typesig.StableId][]byte, len(fd.Resources))
	for _, r := range fd.Resources {
		resources[r.Type] = r.Default
	}

	byLabel := map[schedule.Label][]schedule.Descriptor{}
	var labelOrder []schedule.Label
	for _, d := range fd.Schedules {
		if _, ok := byLabel[d.Label]; !ok {
			labelOrder = append(labelOrder, d.Label)
		}
		byLabel[d.Label] = append(byLabel[d.Label], d)
	}

	schedules := make(map[schedule.Label]*schedule.Loaded, len(labelOrder))
	for _, label := range labelOrder {
		loaded, err := schedule.Load(label, byLabel[label])
		if err != nil {
			return LoadedFeature{}, fmt.Errorf("load schedule %q: %w", label, err)
		}
		schedules[label] = loaded
		log.Debugf("assembler: feature %q schedule %q: %d system(s)", fd.Name, label, len(loaded.TopologicalOrder))
	}

	return LoadedFeature{Name: fd.Name, Resources: resources, Schedules: schedules}, nil
}
