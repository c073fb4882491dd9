package program

// ProgramStats contains statistics about a PVM program
type ProgramStats struct {
	CodeSize           int          // Code length in bytes
	JumpTableSize      int          // Entries in the dynamic jump table
	InstructionCount   int          // Total number of PVM instructions
	BasicBlockCount    int          // Total number of basic blocks
	InvalidOpcodes     int          // Instruction starts holding an unassigned opcode
	OpcodeDistribution map[byte]int // Distribution of opcodes
}

// Analyze walks the instruction starts once and collects ProgramStats.
func (p *Program) Analyze() *ProgramStats {
	stats := &ProgramStats{
		CodeSize:           len(p.Code),
		JumpTableSize:      len(p.JumpTable),
		OpcodeDistribution: make(map[byte]int),
	}
	for i, start := range p.Mask {
		if !start {
			continue
		}
		op := p.Code[i]
		stats.InstructionCount++
		stats.OpcodeDistribution[op]++
		if !IsValidOpcode(op) {
			stats.InvalidOpcodes++
		}
		if p.blockStart[i] {
			stats.BasicBlockCount++
		}
	}
	return stats
}

// InstructionInfo describes one decoded instruction
type InstructionInfo struct {
	PC                uint32 // Program counter (position in code)
	Opcode            byte   // Instruction opcode
	Operands          []byte // Operand bytes following the opcode
	IsBasicBlockStart bool   // Whether this instruction starts a basic block
}

// Name is the mnemonic of the instruction.
func (i InstructionInfo) Name() string {
	return OpcodeToString(i.Opcode)
}

// Instructions lists every instruction start in code order.
func (p *Program) Instructions() []InstructionInfo {
	var instructions []InstructionInfo
	for i, start := range p.Mask {
		if !start {
			continue
		}
		pc := uint32(i)
		w := p.Window(pc)
		instructions = append(instructions, InstructionInfo{
			PC:                pc,
			Opcode:            w[0],
			Operands:          w[1:],
			IsBasicBlockStart: p.blockStart[i],
		})
	}
	return instructions
}

// BasicBlock is a run of instructions entered only at its first one.
type BasicBlock struct {
	Start        uint32
	Instructions []InstructionInfo
}

// Terminator returns the last instruction of the block.
func (b *BasicBlock) Terminator() InstructionInfo {
	return b.Instructions[len(b.Instructions)-1]
}

// BasicBlocks groups Instructions by block beginning. Instructions that
// precede the first block beginning (unreachable code) are dropped.
func (p *Program) BasicBlocks() []*BasicBlock {
	var blocks []*BasicBlock
	var cur *BasicBlock
	for _, inst := range p.Instructions() {
		if inst.IsBasicBlockStart {
			cur = &BasicBlock{Start: inst.PC}
			blocks = append(blocks, cur)
		}
		if cur != nil {
			cur.Instructions = append(cur.Instructions, inst)
		}
	}
	return blocks
}

// GetBasicBlockBoundaries returns the PC positions where each basic block starts
func (p *Program) GetBasicBlockBoundaries() []uint32 {
	var boundaries []uint32
	for i, start := range p.blockStart {
		if start {
			boundaries = append(boundaries, uint32(i))
		}
	}
	return boundaries
}
