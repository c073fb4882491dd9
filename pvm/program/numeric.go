package program

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/colorfulnotion/jampvm/types"
)

// MaxSkip is the longest operand run the decoder looks ahead for.
const MaxSkip = 24

// Z reinterprets the n-byte unsigned value a as a signed integer (GP eq. A.10).
func Z(n int, a uint64) (int64, error) {
	if n < 0 || n > 8 {
		return 0, fmt.Errorf("%w: Z width %d outside [0,8]", jamerrors.ErrPDomain, n)
	}
	if n == 0 {
		if a != 0 {
			return 0, fmt.Errorf("%w: Z(0, %d)", jamerrors.ErrPDomain, a)
		}
		return 0, nil
	}
	if n < 8 && a >= uint64(1)<<(8*n) {
		return 0, fmt.Errorf("%w: Z(%d, %d) value too wide", jamerrors.ErrPDomain, n, a)
	}
	return ZEncode(a, uint32(n)), nil
}

// ZInv is the inverse of Z: (2^(8n) + a) mod 2^(8n).
func ZInv(n int, a int64) (uint64, error) {
	if n < 0 || n > 8 {
		return 0, fmt.Errorf("%w: Z_inv width %d outside [0,8]", jamerrors.ErrPDomain, n)
	}
	if n == 8 {
		return uint64(a), nil
	}
	return uint64(a) & (uint64(1)<<(8*n) - 1), nil
}

// ReadVarInt decodes length little-endian bytes from buf and sign-extends
// the result to 64 bits. A zero length reads as 0.
func ReadVarInt(buf []byte, length int) (uint64, error) {
	if length < 0 || length > 8 {
		return 0, fmt.Errorf("%w: varint length %d outside [0,8]", jamerrors.ErrPDomain, length)
	}
	if len(buf) < length {
		return 0, fmt.Errorf("%w: varint needs %d bytes, have %d", jamerrors.ErrPDomain, length, len(buf))
	}
	if length == 0 {
		return 0, nil
	}
	return XEncode(types.DecodeE_l(buf[:length]), uint32(length)), nil
}

// XEncode is the sign extension X_n of an n-byte value to 64 bits.
func XEncode(x uint64, n uint32) uint64 {
	if n == 0 || n > 8 {
		return 0
	}
	if n == 8 {
		return x
	}
	shift := 64 - 8*n
	return uint64(int64(x<<shift) >> shift)
}

// ZEncode is Z_n without the domain checks, for the operand decoders.
func ZEncode(a uint64, n uint32) int64 {
	if n == 0 || n > 8 {
		return 0
	}
	shift := 64 - 8*n
	return int64(a<<shift) >> shift
}

// Smod is the sign-of-dividend remainder used by REM_S.
func Smod(a, b int64) int64 {
	if b == 0 {
		return a
	}
	absA, absB := a, b
	if absA < 0 {
		absA = -absA
	}
	if absB < 0 {
		absB = -absB
	}
	modVal := uint64(absA) % uint64(absB)
	if a < 0 {
		return -int64(modVal)
	}
	return int64(modVal)
}

// Skip returns how many bytes after cur belong to the instruction at cur:
// the count of non-start positions before the next start bit, capped at
// MaxSkip. Running past the end of the mask also yields MaxSkip.
func Skip(mask []bool, cur uint32) uint32 {
	for d := uint32(0); d < MaxSkip; d++ {
		i := uint64(cur) + 1 + uint64(d)
		if i >= uint64(len(mask)) {
			return MaxSkip
		}
		if mask[i] {
			return d
		}
	}
	return MaxSkip
}
