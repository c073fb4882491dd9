package interpreter

import (
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
)

// IsBlockBeginning reports whether control may be transferred to p.
func IsBlockBeginning(prog *program.Program, p uint32) bool {
	return prog.IsBlockBeginning(p)
}

// Branch moves the pointer to addr when cond holds and addr starts a basic
// block, and past the current instruction by skip bytes when it does not hold.
func Branch(ctx *Context, addr uint32, cond bool, skip uint32) pvmtypes.ExitReason {
	if !cond {
		ctx.PC += skip
		return pvmtypes.Continue()
	}
	if !IsBlockBeginning(ctx.Program, addr) {
		return pvmtypes.Panic()
	}
	ctx.PC = addr
	return pvmtypes.Continue()
}

// DJump jumps through the dynamic jump table (GP eq. A.18).
func DJump(ctx *Context, addr uint32) pvmtypes.ExitReason {
	if addr == pvmtypes.HaltAddress {
		return pvmtypes.Halt()
	}
	table := ctx.Program.JumpTable
	if addr == 0 || uint64(addr) > uint64(len(table))*pvmtypes.Z_A || addr%pvmtypes.Z_A != 0 {
		return pvmtypes.Panic()
	}
	target := table[addr/pvmtypes.Z_A-1]
	if !IsBlockBeginning(ctx.Program, target) {
		return pvmtypes.Panic()
	}
	ctx.PC = target
	return pvmtypes.Continue()
}
