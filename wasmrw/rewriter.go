package wasmrw

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/harmonize-build/harmonize/address"
)

// bevyModuleName is the fixed import module name the rewriter inserts
// per-type memory imports under (§4.4 step 1).
const bevyModuleName = "bevy"

// Result is the output of Rewrite: the post-processed wasm binary plus an
// auxiliary text disassembly for debugging (§4.4 step 3).
type Result struct {
	Wasm []byte
	Wat  string
}

// Rewrite performs the three steps of §4.4 against compiled, with addrs
// already produced by address.Allocate in the same order the manifest's
// types were registered. log receives one Debug entry per retargeted
// instruction and a Warn summary per function with any retargeting, per
// spec §9's "logs a warning on every retargeting it performs so drift can
// be spotted manually".
func Rewrite(compiled []byte, addrs []address.TypeAddress, log *logrus.Entry) (Result, error) {
	mod, err := DecodeModule(compiled)
	if err != nil {
		return Result{}, fmt.Errorf("wasmrw: decode module: %w", err)
	}

	fieldNames := make([]string, len(addrs))
	for i, a := range addrs {
		fieldNames[i] = a.Signature.Id.String()
	}
	if err := mod.AugmentImports(bevyModuleName, fieldNames); err != nil {
		return Result{}, fmt.Errorf("wasmrw: augment imports: %w", err)
	}

	fns, err := mod.DecodeFunctions()
	if err != nil {
		return Result{}, fmt.Errorf("wasmrw: decode functions: %w", err)
	}

	for fi := range fns {
		retargeted := retargetFunction(&fns[fi], addrs, log, fi)
		if retargeted > 0 && log != nil {
			log.Warnf("wasmrw: retargeted %d instruction(s) in function %d", retargeted, fi)
		}
	}
	mod.ReplaceFunctions(fns)

	wasm := mod.Encode()
	return Result{Wasm: wasm, Wat: disassemble(mod, fns)}, nil
}

// retargetFunction walks one function's instructions maintaining the
// single-slot i32.const carry described in §4.4 step 2, retargeting every
// memory access whose probable effective address falls inside a known
// TypeAddress range.
func retargetFunction(fn *Function, addrs []address.TypeAddress, log *logrus.Entry, fnIndex int) int {
	var carry *int32
	retargeted := 0

	for ii := range fn.Instructions {
		instr := &fn.Instructions[ii]

		if IsMemAccess(instr.Opcode) {
			var probable uint32
			if carry != nil {
				probable = uint32(*carry) + instr.MemArg.Offset
			} else {
				probable = instr.MemArg.Offset
			}
			if pos, _, ok := address.Find(addrs, uint64(probable)); ok {
				instr.MemArg.MemoryIndex = address.MemoryIndex(pos)
				instr.Retargeted = true
				retargeted++
				if log != nil {
					log.Debugf("wasmrw: fn %d instr %d: retargeted %#x to memory %d",
						fnIndex, ii, probable, instr.MemArg.MemoryIndex)
				}
			}
		}

		if instr.Opcode == OpI32Const {
			v := instr.I32Const
			carry = &v
		} else {
			carry = nil
		}
	}
	return retargeted
}
