package wasmrw

import (
	"fmt"
	"strings"
)

// disassemble renders a minimal, debug-only text form of the rewritten
// module: one line per function, one per instruction, flagging the ones the
// rewriter retargeted. It is not a full .wat emitter — no attempt is made
// to reconstruct block nesting, symbol names, or types — just enough to
// inspect what the rewriter did (spec §4.4 step 3's "auxiliary text
// disassembly for debugging").
func disassemble(mod *Module, fns []Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(module ;; %d function(s), %d section(s)\n", len(fns), len(mod.sections))
	for fi, fn := range fns {
		fmt.Fprintf(&b, "  (func $%d\n", fi)
		for ii, instr := range fn.Instructions {
			mark := ""
			if instr.Retargeted {
				mark = fmt.Sprintf(" ;; retargeted -> memory %d", instr.MemArg.MemoryIndex)
			}
			if instr.MemArg != nil {
				fmt.Fprintf(&b, "    [%d] %#02x offset=%d memory=%d%s\n",
					ii, byte(instr.Opcode), instr.MemArg.Offset, instr.MemArg.MemoryIndex, mark)
			} else if instr.Opcode == OpI32Const {
				fmt.Fprintf(&b, "    [%d] i32.const %d\n", ii, instr.I32Const)
			} else {
				fmt.Fprintf(&b, "    [%d] %#02x\n", ii, byte(instr.Opcode))
			}
		}
		b.WriteString("  )\n")
	}
	b.WriteString(")\n")
	return b.String()
}
