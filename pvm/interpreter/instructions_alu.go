package interpreter

import (
	"math"
	"math/bits"

	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/holiman/uint256"
)

// 32-bit operations work on the low 32 bits of their operands and
// sign-extend the 32-bit result into the register.

func x4(v uint64) uint64 {
	return program.XEncode(v, 4)
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

type binary func(x, y uint64) uint64

// unary: rD = f(rA)
func unary(f func(uint64) uint64) Eval {
	return func(ctx *Context, a Args) Result {
		ctx.SetReg(a.RegD, f(ctx.Reg(a.RegA)))
		return next()
	}
}

// regImm: rA = f(rB, vx)
func regImm(f binary) Eval {
	return func(ctx *Context, a Args) Result {
		ctx.SetReg(a.RegA, f(ctx.Reg(a.RegB), a.Vx))
		return next()
	}
}

// regImmAlt: rA = f(vx, rB)
func regImmAlt(f binary) Eval {
	return func(ctx *Context, a Args) Result {
		ctx.SetReg(a.RegA, f(a.Vx, ctx.Reg(a.RegB)))
		return next()
	}
}

// regReg: rD = f(rA, rB)
func regReg(f binary) Eval {
	return func(ctx *Context, a Args) Result {
		ctx.SetReg(a.RegD, f(ctx.Reg(a.RegA), ctx.Reg(a.RegB)))
		return next()
	}
}

// cmovImm: rA = vx when rB satisfies zero
func cmovImm(zero bool) Eval {
	return func(ctx *Context, a Args) Result {
		if (ctx.Reg(a.RegB) == 0) == zero {
			ctx.SetReg(a.RegA, a.Vx)
		}
		return next()
	}
}

// cmov: rD = rA when rB satisfies zero
func cmov(zero bool) Eval {
	return func(ctx *Context, a Args) Result {
		if (ctx.Reg(a.RegB) == 0) == zero {
			ctx.SetReg(a.RegD, ctx.Reg(a.RegA))
		}
		return next()
	}
}

func add32(x, y uint64) uint64    { return x4(x + y) }
func sub32(x, y uint64) uint64    { return x4(x - y) }
func mul32(x, y uint64) uint64    { return x4(x * y) }
func add64(x, y uint64) uint64    { return x + y }
func sub64(x, y uint64) uint64    { return x - y }
func mul64(x, y uint64) uint64    { return x * y }
func and(x, y uint64) uint64      { return x & y }
func or(x, y uint64) uint64       { return x | y }
func xor(x, y uint64) uint64      { return x ^ y }
func andInv(x, y uint64) uint64   { return x &^ y }
func orInv(x, y uint64) uint64    { return x | ^y }
func xnor(x, y uint64) uint64     { return ^(x ^ y) }
func setLtU(x, y uint64) uint64   { return b2u(ltU(x, y)) }
func setLtS(x, y uint64) uint64   { return b2u(ltS(x, y)) }
func setGtU(x, y uint64) uint64   { return b2u(gtU(x, y)) }
func setGtS(x, y uint64) uint64   { return b2u(gtS(x, y)) }
func negAdd32(x, y uint64) uint64 { return x4(y - x) }
func negAdd64(x, y uint64) uint64 { return y - x }

func maxS(x, y uint64) uint64 {
	if int64(x) > int64(y) {
		return x
	}
	return y
}

func minS(x, y uint64) uint64 {
	if int64(x) < int64(y) {
		return x
	}
	return y
}

func maxU(x, y uint64) uint64 { return max(x, y) }
func minU(x, y uint64) uint64 { return min(x, y) }

// Shifts and rotates take the amount modulo the operand width.

func shloL32(x, s uint64) uint64 { return x4(x << (s & 31)) }
func shloR32(x, s uint64) uint64 { return x4(uint64(uint32(x) >> (s & 31))) }
func sharR32(x, s uint64) uint64 { return uint64(int64(int32(uint32(x)) >> (s & 31))) }
func shloL64(x, s uint64) uint64 { return x << (s & 63) }
func shloR64(x, s uint64) uint64 { return x >> (s & 63) }
func sharR64(x, s uint64) uint64 { return uint64(int64(x) >> (s & 63)) }

func rotL64(x, s uint64) uint64 { return bits.RotateLeft64(x, int(s&63)) }
func rotR64(x, s uint64) uint64 { return bits.RotateLeft64(x, -int(s&63)) }
func rotL32(x, s uint64) uint64 { return x4(uint64(bits.RotateLeft32(uint32(x), int(s&31)))) }
func rotR32(x, s uint64) uint64 { return x4(uint64(bits.RotateLeft32(uint32(x), -int(s&31)))) }

// Division by zero yields 2^64-1 for quotients and the dividend for
// remainders. Signed overflow yields the dividend and 0 respectively.

func divU32(x, y uint64) uint64 {
	a, b := uint32(x), uint32(y)
	if b == 0 {
		return math.MaxUint64
	}
	return x4(uint64(a / b))
}

func divS32(x, y uint64) uint64 {
	a, b := int32(x), int32(y)
	switch {
	case b == 0:
		return math.MaxUint64
	case a == math.MinInt32 && b == -1:
		return uint64(int64(a))
	}
	return uint64(int64(a / b))
}

func remU32(x, y uint64) uint64 {
	a, b := uint32(x), uint32(y)
	if b == 0 {
		return x4(uint64(a))
	}
	return x4(uint64(a % b))
}

func remS32(x, y uint64) uint64 {
	a, b := int32(x), int32(y)
	switch {
	case b == 0:
		return uint64(int64(a))
	case a == math.MinInt32 && b == -1:
		return 0
	}
	return uint64(program.Smod(int64(a), int64(b)))
}

func divU64(x, y uint64) uint64 {
	if y == 0 {
		return math.MaxUint64
	}
	return x / y
}

func divS64(x, y uint64) uint64 {
	a, b := int64(x), int64(y)
	switch {
	case b == 0:
		return math.MaxUint64
	case a == math.MinInt64 && b == -1:
		return x
	}
	return uint64(a / b)
}

func remU64(x, y uint64) uint64 {
	if y == 0 {
		return x
	}
	return x % y
}

func remS64(x, y uint64) uint64 {
	a, b := int64(x), int64(y)
	switch {
	case b == 0:
		return x
	case a == math.MinInt64 && b == -1:
		return 0
	}
	return uint64(program.Smod(a, b))
}

// The MUL_UPPER family keeps bits 64..127 of the 128-bit product. Operands
// are widened to 256 bits (two's complement for signed ones) so a single
// wrapping multiply covers every sign combination.

func widen(v uint64, signed bool) *uint256.Int {
	if signed && int64(v) < 0 {
		return &uint256.Int{v, math.MaxUint64, math.MaxUint64, math.MaxUint64}
	}
	return &uint256.Int{v, 0, 0, 0}
}

func mulUpper(xSigned, ySigned bool) binary {
	return func(x, y uint64) uint64 {
		var p uint256.Int
		p.Mul(widen(x, xSigned), widen(y, ySigned))
		return p[1]
	}
}

// Two-register bit manipulation (A.5.9).

func identity(x uint64) uint64     { return x }
func popcount64(x uint64) uint64   { return uint64(bits.OnesCount64(x)) }
func popcount32(x uint64) uint64   { return uint64(bits.OnesCount32(uint32(x))) }
func clz64(x uint64) uint64        { return uint64(bits.LeadingZeros64(x)) }
func clz32(x uint64) uint64        { return uint64(bits.LeadingZeros32(uint32(x))) }
func ctz64(x uint64) uint64        { return uint64(bits.TrailingZeros64(x)) }
func ctz32(x uint64) uint64        { return uint64(bits.TrailingZeros32(uint32(x))) }
func signExtend8(x uint64) uint64  { return program.XEncode(x, 1) }
func signExtend16(x uint64) uint64 { return program.XEncode(x, 2) }
func zeroExtend16(x uint64) uint64 { return x & 0xffff }
func reverseBytes(x uint64) uint64 { return bits.ReverseBytes64(x) }
