package program

import (
	"strings"
	"testing"
)

func sampleProgram(t *testing.T) *Program {
	// LOAD_IMM a0, 42 ; FALLTHROUGH ; TRAP ; <invalid>
	return mustNew(t,
		[]byte{LOAD_IMM, 0x07, 0x2a, FALLTHROUGH, TRAP, 0xff},
		[]bool{true, false, false, true, true, true},
		nil, 0)
}

func TestAnalyze(t *testing.T) {
	stats := sampleProgram(t).Analyze()

	if stats.InstructionCount != 4 {
		t.Errorf("Expected 4 instructions, got %d", stats.InstructionCount)
	}
	if stats.BasicBlockCount != 3 {
		t.Errorf("Expected 3 basic blocks, got %d", stats.BasicBlockCount)
	}
	if stats.InvalidOpcodes != 1 {
		t.Errorf("Expected 1 invalid opcode, got %d", stats.InvalidOpcodes)
	}
	if stats.OpcodeDistribution[LOAD_IMM] != 1 {
		t.Errorf("Expected 1 occurrence of LOAD_IMM, got %d", stats.OpcodeDistribution[LOAD_IMM])
	}
	if stats.CodeSize != 6 {
		t.Errorf("Expected code size 6, got %d", stats.CodeSize)
	}
}

func TestBasicBlocks(t *testing.T) {
	p := sampleProgram(t)
	blocks := p.BasicBlocks()
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}
	if got := len(blocks[0].Instructions); got != 2 {
		t.Errorf("Expected 2 instructions in the first block, got %d", got)
	}
	if name := blocks[0].Terminator().Name(); name != "FALLTHROUGH" {
		t.Errorf("Expected FALLTHROUGH terminator, got %s", name)
	}

	boundaries := p.GetBasicBlockBoundaries()
	expected := []uint32{0, 4, 5}
	if len(boundaries) != len(expected) {
		t.Fatalf("Expected %d boundaries, got %d", len(expected), len(boundaries))
	}
	for i := range expected {
		if boundaries[i] != expected[i] {
			t.Errorf("Boundary %d: expected %d, got %d", i, expected[i], boundaries[i])
		}
	}
}

func TestDisassemble(t *testing.T) {
	out := sampleProgram(t).Disassemble()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "@") || !strings.Contains(lines[0], "LOAD_IMM a0, 0x2a") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if strings.HasPrefix(lines[1], "@") {
		t.Errorf("FALLTHROUGH at pc 3 is not a block beginning: %q", lines[1])
	}
	if !strings.Contains(lines[3], "UNKNOWN") {
		t.Errorf("unexpected last line %q", lines[3])
	}
}

func TestFormatBranchTarget(t *testing.T) {
	// BRANCH_EQ_IMM r1, 5, -2 at pc 10 targets pc 8
	got := FormatOperands(10, BRANCH_EQ_IMM, []byte{0x11, 0x05, 0xfe})
	if got != "sp, 0x5, @8" {
		t.Errorf("unexpected operands %q", got)
	}
	if got := FormatOperands(0, ADD_64, []byte{0x21}); !strings.HasPrefix(got, "<") {
		t.Errorf("short operands should render as an error, got %q", got)
	}
}
