package program

import (
	"errors"
	"math"
	"testing"

	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/stretchr/testify/require"
)

func TestZRoundTrip(t *testing.T) {
	for n := 1; n <= 8; n++ {
		half := int64(1) << (8*n - 1)
		if n == 8 {
			half = math.MaxInt64
		}
		for _, v := range []int64{0, 1, -1, half - 1, -half, 42, -42} {
			if n < 8 && (v >= half || v < -half) {
				continue
			}
			a, err := ZInv(n, v)
			require.NoError(t, err)
			back, err := Z(n, a)
			require.NoError(t, err)
			require.Equal(t, v, back, "n=%d v=%d", n, v)
		}
	}
}

func TestZValues(t *testing.T) {
	v, err := Z(1, 0x80)
	require.NoError(t, err)
	require.Equal(t, int64(-128), v)

	v, err = Z(2, 0x7fff)
	require.NoError(t, err)
	require.Equal(t, int64(0x7fff), v)

	u, err := ZInv(1, -1)
	require.NoError(t, err)
	require.Equal(t, uint64(0xff), u)

	v, err = Z(0, 0)
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestZDomain(t *testing.T) {
	_, err := Z(-1, 0)
	require.ErrorIs(t, err, jamerrors.ErrPDomain)
	_, err = Z(9, 0)
	require.ErrorIs(t, err, jamerrors.ErrPDomain)
	_, err = Z(2, 0x10000)
	require.ErrorIs(t, err, jamerrors.ErrPDomain)
	_, err = ZInv(-3, 1)
	require.ErrorIs(t, err, jamerrors.ErrPDomain)
}

func TestReadVarInt(t *testing.T) {
	v, err := ReadVarInt([]byte{0xff}, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)

	v, err = ReadVarInt([]byte{0x34, 0x12, 0x00}, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1234), v)

	v, err = ReadVarInt(nil, 0)
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = ReadVarInt(make([]byte, 16), 9)
	require.True(t, errors.Is(err, jamerrors.ErrPDomain))
	_, err = ReadVarInt([]byte{1}, 4)
	require.ErrorIs(t, err, jamerrors.ErrPDomain)
}

func TestSignExtension(t *testing.T) {
	require.Equal(t, uint64(0xffffffffffffff80), XEncode(0x80, 1))
	require.Equal(t, uint64(0x7f), XEncode(0x7f, 1))
	require.Equal(t, uint64(0xffffffff80000000), XEncode(0x80000000, 4))
	require.Equal(t, int64(-2), ZEncode(0xfffe, 2))
}

func TestSmod(t *testing.T) {
	require.Equal(t, int64(-1), Smod(-7, 3))
	require.Equal(t, int64(1), Smod(7, -3))
	require.Equal(t, int64(5), Smod(5, 0))
	require.Equal(t, int64(0), Smod(math.MinInt64, -1))
}

func TestSkip(t *testing.T) {
	require.Equal(t, uint32(2), Skip([]bool{true, false, false, true}, 0))
	require.Equal(t, uint32(0), Skip([]bool{true, true}, 0))

	sparse := make([]bool, 40)
	sparse[0] = true
	sparse[30] = true
	require.Equal(t, uint32(MaxSkip), Skip(sparse, 0))

	sparse[25] = true
	require.Equal(t, uint32(24), Skip(sparse, 0))
	sparse[20] = true
	require.Equal(t, uint32(19), Skip(sparse, 0))

	// no boundary before the end of the code
	require.Equal(t, uint32(MaxSkip), Skip([]bool{true}, 0))
	require.Equal(t, uint32(MaxSkip), Skip([]bool{true, false, false}, 0))
}
