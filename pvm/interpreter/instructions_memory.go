package interpreter

import (
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
)

// Loads and stores of width n bytes. Signed loads sign-extend to 64 bits,
// stores write the low n bytes. Addresses wrap modulo 2^32.

func extend(v uint64, n uint32, signed bool) uint64 {
	if signed {
		return program.XEncode(v, n)
	}
	return v
}

// loadDirect: rA = mem[vx]
func loadDirect(n uint32, signed bool) Eval {
	return func(ctx *Context, a Args) Result {
		v, exit := ctx.load(uint32(a.Vx), n)
		if exit.Stops() {
			return stop(exit)
		}
		ctx.SetReg(a.RegA, extend(v, n, signed))
		return next()
	}
}

// loadInd: rA = mem[rB + vx]
func loadInd(n uint32, signed bool) Eval {
	return func(ctx *Context, a Args) Result {
		v, exit := ctx.load(uint32(ctx.Reg(a.RegB)+a.Vx), n)
		if exit.Stops() {
			return stop(exit)
		}
		ctx.SetReg(a.RegA, extend(v, n, signed))
		return next()
	}
}

// storeDirect: mem[vx] = rA
func storeDirect(n uint32) Eval {
	return func(ctx *Context, a Args) Result {
		return stopOnFault(ctx.store(uint32(a.Vx), ctx.Reg(a.RegA), n))
	}
}

// storeImm: mem[vx] = vy
func storeImm(n uint32) Eval {
	return func(ctx *Context, a Args) Result {
		return stopOnFault(ctx.store(uint32(a.Vx), a.Vy, n))
	}
}

// storeImmInd: mem[rA + vx] = vy
func storeImmInd(n uint32) Eval {
	return func(ctx *Context, a Args) Result {
		return stopOnFault(ctx.store(uint32(ctx.Reg(a.RegA))+uint32(a.Vx), a.Vy, n))
	}
}

// storeInd: mem[rB + vx] = rA
func storeInd(n uint32) Eval {
	return func(ctx *Context, a Args) Result {
		return stopOnFault(ctx.store(uint32(ctx.Reg(a.RegB)+a.Vx), ctx.Reg(a.RegA), n))
	}
}

func stopOnFault(exit pvmtypes.ExitReason) Result {
	if exit.Stops() {
		return stop(exit)
	}
	return next()
}
