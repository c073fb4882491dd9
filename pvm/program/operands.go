package program

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/colorfulnotion/jampvm/types"
)

// The extractors below take the operand bytes of one instruction (the window
// without its opcode byte). Register indices are clamped to 12. An operand
// window shorter than the register bytes, or shorter than an immediate length
// declared by the first operand byte, is an error.

func shortOperands(form string, need, have int) error {
	return fmt.Errorf("%w: %s needs %d operand bytes, have %d", jamerrors.ErrPBadOperands, form, need, have)
}

func reg(b byte) int {
	return min(12, int(b))
}

func imm(args []byte, l int) uint64 {
	return XEncode(types.DecodeE_l(args[:l]), uint32(l))
}

func offset(args []byte, l int) int64 {
	return ZEncode(types.DecodeE_l(args[:l]), uint32(l))
}

// A.5.2. Instructions with Arguments of One Immediate. (ECALLI)
func ExtractOneImm(args []byte) (vx uint64) {
	lx := min(4, len(args))
	return imm(args, lx)
}

// A.5.3. Instructions with Arguments of One Register and One Extended Width Immediate. (LOAD_IMM_64)
func ExtractOneRegExtImm(args []byte) (regA int, vx uint64, err error) {
	if len(args) < 9 {
		return 0, 0, shortOperands("reg,imm64", 9, len(args))
	}
	return reg(args[0] % 16), types.DecodeE_l(args[1:9]), nil
}

// A.5.4. Instructions with Arguments of Two Immediates.
func ExtractTwoImm(args []byte) (vx uint64, vy uint64, err error) {
	if len(args) < 1 {
		return 0, 0, shortOperands("imm,imm", 1, 0)
	}
	lx := min(4, int(args[0])%8)
	if len(args) < 1+lx {
		return 0, 0, shortOperands("imm,imm", 1+lx, len(args))
	}
	ly := min(4, max(0, len(args)-lx-1))
	return imm(args[1:], lx), imm(args[1+lx:], ly), nil
}

// A.5.5. Instructions with Arguments of One Offset. (JUMP)
func ExtractOneOffset(args []byte) (vx int64) {
	lx := min(4, len(args))
	return offset(args, lx)
}

// A.5.6. Instructions with Arguments of One Register & One Immediate.
func ExtractOneRegOneImm(args []byte) (regA int, vx uint64, err error) {
	if len(args) < 1 {
		return 0, 0, shortOperands("reg,imm", 1, 0)
	}
	lx := min(4, len(args)-1)
	return reg(args[0] % 16), imm(args[1:], lx), nil
}

// A.5.7. Instructions with Arguments of One Register and Two Immediates.
func ExtractOneRegTwoImm(args []byte) (regA int, vx uint64, vy uint64, err error) {
	if len(args) < 1 {
		return 0, 0, 0, shortOperands("reg,imm,imm", 1, 0)
	}
	lx := min(4, (int(args[0])/16)%8)
	if len(args) < 1+lx {
		return 0, 0, 0, shortOperands("reg,imm,imm", 1+lx, len(args))
	}
	ly := min(4, max(0, len(args)-lx-1))
	return reg(args[0] % 16), imm(args[1:], lx), imm(args[1+lx:], ly), nil
}

// A.5.8. Instructions with Arguments of One Register, One Immediate and One Offset. (LOAD_IMM_JUMP, BRANCH_*_IMM)
func ExtractOneRegImmOffset(args []byte) (regA int, vx uint64, vy int64, err error) {
	if len(args) < 1 {
		return 0, 0, 0, shortOperands("reg,imm,offset", 1, 0)
	}
	lx := min(4, (int(args[0])/16)%8)
	if len(args) < 1+lx {
		return 0, 0, 0, shortOperands("reg,imm,offset", 1+lx, len(args))
	}
	ly := min(4, max(0, len(args)-lx-1))
	return reg(args[0] % 16), imm(args[1:], lx), offset(args[1+lx:], ly), nil
}

// A.5.9. Instructions with Arguments of Two Registers.
func ExtractTwoRegisters(args []byte) (regD, regA int, err error) {
	if len(args) < 1 {
		return 0, 0, shortOperands("reg,reg", 1, 0)
	}
	return reg(args[0] % 16), reg(args[0] / 16), nil
}

// A.5.10. Instructions with Arguments of Two Registers and One Immediate.
func ExtractTwoRegsOneImm(args []byte) (regA, regB int, vx uint64, err error) {
	if len(args) < 1 {
		return 0, 0, 0, shortOperands("reg,reg,imm", 1, 0)
	}
	lx := min(4, len(args)-1)
	return reg(args[0] % 16), reg(args[0] / 16), imm(args[1:], lx), nil
}

// A.5.11. Instructions with Arguments of Two Registers and One Offset. (BRANCH_*)
func ExtractTwoRegsOneOffset(args []byte) (regA, regB int, vx int64, err error) {
	if len(args) < 1 {
		return 0, 0, 0, shortOperands("reg,reg,offset", 1, 0)
	}
	lx := min(4, len(args)-1)
	return reg(args[0] % 16), reg(args[0] / 16), offset(args[1:], lx), nil
}

// A.5.12. Instructions with Arguments of Two Registers and Two Immediates. (LOAD_IMM_JUMP_IND)
func ExtractTwoRegsTwoImm(args []byte) (regA, regB int, vx, vy uint64, err error) {
	if len(args) < 2 {
		return 0, 0, 0, 0, shortOperands("reg,reg,imm,imm", 2, len(args))
	}
	lx := min(4, int(args[1])%8)
	if len(args) < 2+lx {
		return 0, 0, 0, 0, shortOperands("reg,reg,imm,imm", 2+lx, len(args))
	}
	ly := min(4, max(0, len(args)-lx-2))
	return reg(args[0] % 16), reg(args[0] / 16), imm(args[2:], lx), imm(args[2+lx:], ly), nil
}

// A.5.13. Instructions with Arguments of Three Registers.
func ExtractThreeRegs(args []byte) (regA, regB, regD int, err error) {
	if len(args) < 2 {
		return 0, 0, 0, shortOperands("reg,reg,reg", 2, len(args))
	}
	return reg(args[0] % 16), reg(args[0] / 16), reg(args[1]), nil
}
