// Package extractor instantiates a mod's "_export_manifest" wasm under an
// imports-trap sandbox and retrieves its emitted ModManifest (spec §4.7).
package extractor

import (
	"github.com/bytecodealliance/wasmtime-go/v14"
)

// newEngine builds the wasmtime engine used for manifest extraction:
// parallel compilation and default on-disk caching, per spec §4.7.
func newEngine() (*wasmtime.Engine, error) {
	cfg := wasmtime.NewConfig()
	cfg.SetParallelCompilation(true)
	if err := cfg.CacheConfigLoadDefault(); err != nil {
		return nil, err
	}
	return wasmtime.NewEngineWithConfig(cfg), nil
}
