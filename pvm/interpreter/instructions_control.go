package interpreter

import (
	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
)

// A.5.1 - A.5.2

func evalTrap(ctx *Context, a Args) Result {
	return stop(pvmtypes.Panic())
}

func evalFallthrough(ctx *Context, a Args) Result {
	return next()
}

// evalEcalli suspends with the host call id; the loop leaves the pointer on
// the following instruction so the caller can resume directly.
func evalEcalli(ctx *Context, a Args) Result {
	return stop(pvmtypes.HostCall(uint32(a.Vx)))
}

// A.5.3, A.5.6 immediates

func evalLoadImm(ctx *Context, a Args) Result {
	ctx.SetReg(a.RegA, a.Vx)
	return next()
}

// A.5.5 - A.5.8, A.5.11 - A.5.12 control transfers

func evalJump(ctx *Context, a Args) Result {
	return moved(ctx, Branch(ctx, a.target(ctx.PC), true, 0))
}

func evalJumpInd(ctx *Context, a Args) Result {
	return moved(ctx, DJump(ctx, uint32(ctx.Reg(a.RegA)+a.Vx)))
}

func evalLoadImmJump(ctx *Context, a Args) Result {
	ctx.SetReg(a.RegA, a.Vx)
	return moved(ctx, Branch(ctx, a.target(ctx.PC), true, 0))
}

// evalLoadImmJumpInd reads rB before rA is overwritten, so rA == rB jumps
// through the old value.
func evalLoadImmJumpInd(ctx *Context, a Args) Result {
	addr := uint32(ctx.Reg(a.RegB) + a.Vy)
	ctx.SetReg(a.RegA, a.Vx)
	return moved(ctx, DJump(ctx, addr))
}

type predicate func(x, y uint64) bool

var (
	eq  predicate = func(x, y uint64) bool { return x == y }
	ne  predicate = func(x, y uint64) bool { return x != y }
	ltU predicate = func(x, y uint64) bool { return x < y }
	leU predicate = func(x, y uint64) bool { return x <= y }
	geU predicate = func(x, y uint64) bool { return x >= y }
	gtU predicate = func(x, y uint64) bool { return x > y }
	ltS predicate = func(x, y uint64) bool { return int64(x) < int64(y) }
	leS predicate = func(x, y uint64) bool { return int64(x) <= int64(y) }
	geS predicate = func(x, y uint64) bool { return int64(x) >= int64(y) }
	gtS predicate = func(x, y uint64) bool { return int64(x) > int64(y) }
)

// branchImm compares rA with the immediate.
func branchImm(cond predicate) Eval {
	return func(ctx *Context, a Args) Result {
		return moved(ctx, Branch(ctx, a.target(ctx.PC), cond(ctx.Reg(a.RegA), a.Vx), a.Skip+1))
	}
}

// branchReg compares rA with rB.
func branchReg(cond predicate) Eval {
	return func(ctx *Context, a Args) Result {
		return moved(ctx, Branch(ctx, a.target(ctx.PC), cond(ctx.Reg(a.RegA), ctx.Reg(a.RegB)), a.Skip+1))
	}
}

// A.5.9 SBRK

func evalSbrk(ctx *Context, a Args) Result {
	alloc, ok := ctx.Memory.(memory.Allocator)
	if !ok {
		ctx.SetReg(a.RegD, 0)
		return next()
	}
	ctx.SetReg(a.RegD, alloc.Sbrk(ctx.Reg(a.RegA)))
	return next()
}
