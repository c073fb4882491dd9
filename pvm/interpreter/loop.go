package interpreter

import (
	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
)

// Step executes the instruction at ctx.PC. It returns Continue when the
// instruction retired normally and the reason to stop otherwise.
//
// A host call leaves the pointer on the next instruction; a page fault
// leaves it on the faulting one so that resuming retries the access. Gas
// charged for an instruction is never refunded.
func Step(ctx *Context) pvmtypes.ExitReason {
	if ctx.Gas <= 0 {
		return pvmtypes.OutOfGas()
	}

	pc := ctx.PC
	prog := ctx.Program
	if !prog.IsInstructionStart(pc) {
		log.Trace(log.PvmInterpreter, "fetch outside instruction start", "pc", pc)
		return pvmtypes.Panic()
	}
	d := Lookup(prog.Code[pc])
	if d == nil {
		log.Trace(log.PvmInterpreter, "unassigned opcode", "pc", pc, "opcode", prog.Code[pc])
		return pvmtypes.Panic()
	}

	skip := prog.Skip(pc)
	args, err := d.Decode(prog.Window(pc))
	if err != nil {
		log.Trace(log.PvmInterpreter, "decode failed", "pc", pc, "op", d.Name, "err", err)
		return pvmtypes.Panic()
	}
	args.Skip = skip

	ctx.Gas -= d.Gas
	r := d.Eval(ctx, args)

	if log.TraceEnabled(log.PvmInterpreter) {
		log.Trace(log.PvmInterpreter, d.Name, "pc", pc, "gas", ctx.Gas, "exit", r.Exit, "regs", ctx.Registers)
	}

	switch {
	case r.Exit.Kind == pvmtypes.ExitHostCall:
		ctx.PC = pc + skip + 1
		return r.Exit
	case r.Exit.Stops():
		ctx.PC = pc
		return r.Exit
	case r.Jump:
		ctx.PC = r.Next
	default:
		ctx.PC = pc + skip + 1
	}
	return pvmtypes.Continue()
}

// Run steps until an instruction stops the machine.
func Run(ctx *Context) pvmtypes.ExitReason {
	for {
		if exit := Step(ctx); exit.Stops() {
			return exit
		}
	}
}

// Resume continues a context suspended by a host call or page fault.
func Resume(ctx *Context) pvmtypes.ExitReason {
	return Run(ctx)
}
