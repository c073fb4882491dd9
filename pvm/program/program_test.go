package program

import (
	"testing"

	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, code []byte, mask []bool, jumps []uint32, z uint8) *Program {
	t.Helper()
	p, err := New(code, mask, jumps, z)
	require.NoError(t, err)
	return p
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	code := []byte{TRAP, LOAD_IMM, 0x07, 0x2a, FALLTHROUGH, TRAP}
	mask := []bool{true, true, false, false, true, true}
	p := mustNew(t, code, mask, []uint32{1, 5}, 2)

	blob := p.Encode()
	// E(2) z E(6) 2x2 jump bytes, 6 code bytes, 1 mask byte
	require.Len(t, blob, 1+1+1+4+6+1)

	got, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, code, got.Code)
	assert.Equal(t, mask, got.Mask)
	assert.Equal(t, []uint32{1, 5}, got.JumpTable)
	assert.Equal(t, uint8(2), got.JumpEntryWidth)
	assert.Equal(t, uint32(6), got.Len())
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		blob []byte
		want error
	}{
		{"empty", nil, jamerrors.ErrPTruncated},
		{"no width", []byte{0x00}, jamerrors.ErrPTruncated},
		{"width too large", []byte{0x00, 0x05, 0x00}, jamerrors.ErrPInconsistent},
		{"entries of width zero", []byte{0x01, 0x00, 0x00}, jamerrors.ErrPInconsistent},
		{"jump table truncated", []byte{0x03, 0x04, 0x00, 0x01, 0x02}, jamerrors.ErrPTruncated},
		{"code longer than blob", []byte{0x00, 0x00, 0x05, 0x00}, jamerrors.ErrPTruncated},
		{"missing mask", []byte{0x00, 0x00, 0x02, 0x00, 0x00}, jamerrors.ErrPBadMask},
		{"trailing bytes", []byte{0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0xff}, jamerrors.ErrPInconsistent},
		{"varint cut short", []byte{0xc0}, jamerrors.ErrPTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Decode(tc.blob)
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, p)
		})
	}
}

func TestDecodeIgnoresUnusedMaskBits(t *testing.T) {
	p, err := Decode([]byte{0x00, 0x00, 0x02, TRAP, TRAP, 0xff})
	require.NoError(t, err)
	require.Equal(t, []bool{true, true}, p.Mask)
}

func TestNewRejectsMismatchedMask(t *testing.T) {
	_, err := New([]byte{TRAP, TRAP}, []bool{true}, nil, 0)
	require.ErrorIs(t, err, jamerrors.ErrPBadMask)
	_, err = New([]byte{TRAP}, []bool{true}, []uint32{0}, 0)
	require.ErrorIs(t, err, jamerrors.ErrPInconsistent)
}

func TestBlockBeginnings(t *testing.T) {
	code := []byte{TRAP, LOAD_IMM, 0x07, 0x2a, FALLTHROUGH, TRAP}
	mask := []bool{true, true, false, false, true, true}
	p := mustNew(t, code, mask, nil, 0)

	want := map[uint32]bool{0: true, 1: true, 5: true}
	for pc := uint32(0); pc < 8; pc++ {
		assert.Equal(t, want[pc], p.IsBlockBeginning(pc), "pc %d", pc)
	}
	assert.True(t, p.IsInstructionStart(4))
	assert.False(t, p.IsInstructionStart(2))
	assert.False(t, p.IsInstructionStart(6))
	assert.False(t, p.IsInstructionStart(0xffffffff))
}

func TestBlockBeginningsWithoutLeadingStart(t *testing.T) {
	// pc 0 is not an instruction start, so only starts after a terminator count
	p := mustNew(t, []byte{0x00, TRAP, TRAP}, []bool{false, true, true}, nil, 0)
	assert.False(t, p.IsBlockBeginning(0))
	assert.False(t, p.IsBlockBeginning(1))
	assert.True(t, p.IsBlockBeginning(2))
}

func TestWindowClampsToCode(t *testing.T) {
	p := mustNew(t, []byte{LOAD_IMM, 0x00, 0x05}, []bool{true, false, false}, nil, 0)
	require.Equal(t, uint32(MaxSkip), p.Skip(0))
	require.Equal(t, []byte{LOAD_IMM, 0x00, 0x05}, p.Window(0))
	require.Equal(t, uint32(MaxSkip+1), p.NextPC(0))

	q := mustNew(t, []byte{MOVE_REG, 0x21, TRAP}, []bool{true, false, true}, nil, 0)
	require.Equal(t, []byte{MOVE_REG, 0x21}, q.Window(0))
	require.Equal(t, uint32(2), q.NextPC(0))
}

func TestOperandExtraction(t *testing.T) {
	ra, rb, vx, err := ExtractTwoRegsOneImm([]byte{0x21, 0xff})
	require.NoError(t, err)
	assert.Equal(t, 1, ra)
	assert.Equal(t, 2, rb)
	assert.Equal(t, uint64(0xffffffffffffffff), vx)

	rd, ra, err := ExtractTwoRegisters([]byte{0x0f})
	require.NoError(t, err)
	assert.Equal(t, 12, rd)
	assert.Equal(t, 0, ra)

	ra, vx, off, err := ExtractOneRegImmOffset([]byte{0x11, 0x05, 0xfe})
	require.NoError(t, err)
	assert.Equal(t, 1, ra)
	assert.Equal(t, uint64(5), vx)
	assert.Equal(t, int64(-2), off)

	ra, rb, rd2, err := ExtractThreeRegs([]byte{0x21, 0x03})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{ra, rb, rd2})

	assert.Equal(t, uint64(0), ExtractOneImm(nil))
	assert.Equal(t, int64(-1), ExtractOneOffset([]byte{0xff, 0xff, 0xff, 0xff, 0x99}))
}

func TestOperandWindowTooShort(t *testing.T) {
	_, _, err := ExtractOneRegExtImm([]byte{0x01, 0x02})
	require.ErrorIs(t, err, jamerrors.ErrPBadOperands)

	_, _, err = ExtractTwoImm([]byte{0x03, 0x01})
	require.ErrorIs(t, err, jamerrors.ErrPBadOperands)

	_, _, _, err = ExtractThreeRegs([]byte{0x01})
	require.ErrorIs(t, err, jamerrors.ErrPBadOperands)

	_, _, _, _, err = ExtractTwoRegsTwoImm([]byte{0x01, 0x04, 0x00})
	require.ErrorIs(t, err, jamerrors.ErrPBadOperands)
}

func TestFormOf(t *testing.T) {
	assert.Equal(t, FormNoArgs, FormOf(TRAP))
	assert.Equal(t, FormOneImm, FormOf(ECALLI))
	assert.Equal(t, FormOneRegTwoImm, FormOf(STORE_IMM_IND_U32))
	assert.Equal(t, FormTwoRegTwoImm, FormOf(LOAD_IMM_JUMP_IND))
	assert.Equal(t, FormThreeReg, FormOf(MIN_U))
	assert.Equal(t, FormInvalid, FormOf(2))
	assert.Equal(t, FormInvalid, FormOf(255))
	assert.Equal(t, "reg,reg,imm", FormTwoRegOneImm.String())
	assert.Equal(t, "UNKNOWN", OpcodeToString(231))
}
