package extractor

import (
	"fmt"
	"strings"

	"github.com/bytecodealliance/wasmtime-go/v14"
	"github.com/sirupsen/logrus"

	"github.com/harmonize-build/harmonize/manifest"
)

// panicPayload captures the pointer/length the guest's panic import was
// called with, so the trap it causes can be reported with the guest's own
// message instead of a bare wasmtime trap string.
type panicPayload struct {
	ptr, len uint32
	called   bool
}

// Extract instantiates manifestWasm under an imports-trap sandbox and
// retrieves its emitted ModManifest, per spec §4.7.
func Extract(manifestWasm []byte, log *logrus.Entry) (manifest.ModManifest, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "extractor")

	var zero manifest.ModManifest

	engine, err := newEngine()
	if err != nil {
		return zero, fmt.Errorf("extractor: build engine: %w", err)
	}
	store := wasmtime.NewStore(engine)

	mod, err := wasmtime.NewModule(engine, manifestWasm)
	if err != nil {
		return zero, fmt.Errorf("extractor: parse module: %w", err)
	}

	var payload panicPayload
	linker := wasmtime.NewLinker(engine)
	if err := defineImports(store, linker, mod, &payload, log); err != nil {
		return zero, fmt.Errorf("extractor: define imports: %w", err)
	}

	instance, err := linker.Instantiate(store, mod)
	if err != nil {
		return zero, fmt.Errorf("extractor: instantiate: %w", err)
	}

	run := instance.GetFunc(store, "run")
	if run == nil {
		return zero, fmt.Errorf("extractor: module has no exported run()")
	}

	result, callErr := run.Call(store)
	if callErr != nil {
		if payload.called {
			msg := readPanicMessage(instance, store, payload)
			return zero, fmt.Errorf("extractor: mod panicked: %s", msg)
		}
		return zero, fmt.Errorf("extractor: run() trapped: %w", callErr)
	}

	packed, ok := result.(uint64)
	if !ok {
		return zero, fmt.Errorf("extractor: run() returned unexpected type %T", result)
	}
	ptr := uint32(packed)
	length := uint32(packed >> 32)

	memExport := instance.GetExport(store, "memory")
	if memExport == nil || memExport.Memory() == nil {
		return zero, fmt.Errorf("extractor: module has no default memory")
	}
	data := memExport.Memory().UnsafeData(store)

	if length == 0 {
		return zero, fmt.Errorf("extractor: empty manifest byte range")
	}
	if uint64(ptr)+uint64(length) > uint64(len(data)) {
		return zero, fmt.Errorf("extractor: manifest byte range out of bounds")
	}

	m, err := manifest.Decode(data[ptr : ptr+length])
	if err != nil {
		return zero, fmt.Errorf("extractor: decode manifest: %w", err)
	}
	return m, nil
}

// readPanicMessage reads the UTF-8-lossy text of the guest's panic payload
// from its default memory, falling back to a placeholder if memory is
// unavailable (e.g. the trap happened before memory export was reachable).
func readPanicMessage(instance *wasmtime.Instance, store wasmtime.Storelike, payload panicPayload) string {
	memExport := instance.GetExport(store, "memory")
	if memExport == nil || memExport.Memory() == nil {
		return "<panic message unavailable: no memory>"
	}
	data := memExport.Memory().UnsafeData(store)
	if uint64(payload.ptr)+uint64(payload.len) > uint64(len(data)) {
		return "<panic message out of bounds>"
	}
	return strings.ToValidUTF8(string(data[payload.ptr:payload.ptr+payload.len]), "�")
}

// defineImports wires "bevy_harmonize"::"panic" to capture its payload and
// trap, and traps every other import the module declares on call — the
// "imports-trap sandbox" of spec §4.7/§9.
func defineImports(store *wasmtime.Store, linker *wasmtime.Linker, mod *wasmtime.Module, payload *panicPayload, log *logrus.Entry) error {
	for _, imp := range mod.Imports() {
		moduleName := imp.Module()
		name := ""
		if imp.Name() != nil {
			name = *imp.Name()
		}
		ft := imp.Type().FuncType()
		if ft == nil {
			continue // only function imports are trapped; the mod declares no others in phase 1
		}

		if moduleName == "bevy_harmonize" && name == "panic" {
			fn := wasmtime.NewFunc(store, ft, func(caller *wasmtime.Caller, args []wasmtime.Val) ([]wasmtime.Val, *wasmtime.Trap) {
				if len(args) >= 2 {
					payload.ptr = uint32(args[0].I32())
					payload.len = uint32(args[1].I32())
				}
				payload.called = true
				return nil, wasmtime.NewTrap("mod panicked")
			})
			if err := linker.Define(store, moduleName, name, fn.AsExtern()); err != nil {
				return err
			}
			continue
		}

		log.Debugf("extractor: trapping import %s::%s", moduleName, name)
		trapName := fmt.Sprintf("%s::%s", moduleName, name)
		fn := wasmtime.NewFunc(store, ft, func(caller *wasmtime.Caller, args []wasmtime.Val) ([]wasmtime.Val, *wasmtime.Trap) {
			return nil, wasmtime.NewTrap(fmt.Sprintf("extractor: unexpected import call: %s", trapName))
		})
		if err := linker.Define(store, moduleName, name, fn.AsExtern()); err != nil {
			return err
		}
	}
	return nil
}

// packPointerLen packs a pointer/length pair the same way the guest's run()
// export does, for tests exercising the unpacking logic in isolation.
func packPointerLen(ptr, length uint32) uint64 {
	return uint64(ptr) | uint64(length)<<32
}
