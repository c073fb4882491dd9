package program

import (
	"fmt"
	"strings"
)

// RegisterNames maps register indices to their ABI names
var RegisterNames = []string{
	"ra", "sp", "t0", "t1", "t2", "s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5",
}

func regName(idx int) string {
	if idx >= 0 && idx < len(RegisterNames) {
		return RegisterNames[idx]
	}
	return fmt.Sprintf("r%d", idx)
}

// target resolves a pc-relative offset the way the interpreter does.
func target(pc uint32, off int64) uint32 {
	return uint32(int64(pc) + off)
}

// FormatOperands renders the operands of an instruction at pc. Branch and
// jump targets are printed as absolute addresses.
func FormatOperands(pc uint32, opcode byte, args []byte) string {
	bad := func(err error) string { return "<" + err.Error() + ">" }

	switch FormOf(opcode) {
	case FormNoArgs:
		return ""
	case FormOneImm:
		return fmt.Sprintf("%d", uint32(ExtractOneImm(args)))
	case FormOneRegExtImm:
		ra, vx, err := ExtractOneRegExtImm(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, 0x%x", regName(ra), vx)
	case FormTwoImm:
		vx, vy, err := ExtractTwoImm(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("[0x%x], 0x%x", uint32(vx), vy)
	case FormOneOffset:
		return fmt.Sprintf("@%d", target(pc, ExtractOneOffset(args)))
	case FormOneRegOneImm:
		ra, vx, err := ExtractOneRegOneImm(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, 0x%x", regName(ra), vx)
	case FormOneRegTwoImm:
		ra, vx, vy, err := ExtractOneRegTwoImm(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("[%s+0x%x], 0x%x", regName(ra), uint32(vx), vy)
	case FormOneRegImmOffset:
		ra, vx, off, err := ExtractOneRegImmOffset(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, 0x%x, @%d", regName(ra), vx, target(pc, off))
	case FormTwoReg:
		rd, ra, err := ExtractTwoRegisters(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, %s", regName(rd), regName(ra))
	case FormTwoRegOneImm:
		ra, rb, vx, err := ExtractTwoRegsOneImm(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, %s, 0x%x", regName(ra), regName(rb), vx)
	case FormTwoRegOneOffset:
		ra, rb, off, err := ExtractTwoRegsOneOffset(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, %s, @%d", regName(ra), regName(rb), target(pc, off))
	case FormTwoRegTwoImm:
		ra, rb, vx, vy, err := ExtractTwoRegsTwoImm(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, %s, 0x%x, 0x%x", regName(ra), regName(rb), vx, vy)
	case FormThreeReg:
		ra, rb, rd, err := ExtractThreeRegs(args)
		if err != nil {
			return bad(err)
		}
		return fmt.Sprintf("%s, %s, %s", regName(rd), regName(ra), regName(rb))
	}
	if len(args) > 0 {
		return fmt.Sprintf("%x", args)
	}
	return ""
}

// DisassembleInstruction renders one instruction as "NAME operands".
func DisassembleInstruction(inst InstructionInfo) string {
	ops := FormatOperands(inst.PC, inst.Opcode, inst.Operands)
	if ops == "" {
		return inst.Name()
	}
	return inst.Name() + " " + ops
}

// Disassemble renders the whole program, one instruction per line, with
// block beginnings marked by a leading '@'.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	for _, inst := range p.Instructions() {
		marker := " "
		if inst.IsBasicBlockStart {
			marker = "@"
		}
		fmt.Fprintf(&sb, "%s%6d: %-40s ; %x\n", marker, inst.PC, DisassembleInstruction(inst), append([]byte{inst.Opcode}, inst.Operands...))
	}
	return sb.String()
}
