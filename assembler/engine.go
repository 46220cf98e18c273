package assembler

import "github.com/bytecodealliance/wasmtime-go/v14"

// Pooling-allocation limits from spec §4.8.
const (
	poolTotalMemories     = 100
	poolTotalTables       = 100
	poolTotalCoreInstances = 100
	poolMaxMemorySize     = 2 << 30 // 2 GiB
	poolTableElements     = 5000
)

// newEngine builds the wasmtime engine used to instantiate loaded mods at
// runtime, with the pooling-allocation configuration spec §4.8 names.
// Pooling allocation pre-reserves a fixed-size instance pool instead of
// mmap'ing per instantiation, trading address space for instantiation
// latency — appropriate here since mods are instantiated once at load time
// and held for the host's lifetime.
func newEngine() (*wasmtime.Engine, error) {
	cfg := wasmtime.NewConfig()
	cfg.SetWasmMultiMemory(true) // the rewriter's retargeted loads/stores address memory indices > 0

	strategy := wasmtime.NewPoolingAllocationStrategy()
	strategy.SetInstanceMemories(poolTotalMemories)
	strategy.SetInstanceTables(poolTotalTables)
	strategy.SetInstanceCount(poolTotalCoreInstances)
	strategy.SetInstanceMemoryPages(poolMaxMemorySize / (64 * 1024))
	strategy.SetInstanceTableElements(poolTableElements)
	cfg.SetAllocationStrategy(strategy)

	return wasmtime.NewEngineWithConfig(cfg), nil
}
