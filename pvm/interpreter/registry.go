package interpreter

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
)

// TrapCost is the gas charged for every instruction, trapping ones included.
const TrapCost int64 = 1

// Args are the decoded operands of one instruction. Which fields are set
// depends on the operand form. Offset is pc-relative; Skip is filled in by
// the loop after decoding.
type Args struct {
	RegA, RegB, RegD int
	Vx, Vy           uint64
	Offset           int64
	Skip             uint32
}

// target resolves the pc-relative offset of a branch at pc.
func (a Args) target(pc uint32) uint32 {
	return uint32(int64(pc) + a.Offset)
}

// Result is what an instruction hands back to the loop. A zero Result
// continues at the next instruction; Jump continues at Next instead.
type Result struct {
	Exit pvmtypes.ExitReason
	Next uint32
	Jump bool
}

func next() Result {
	return Result{Exit: pvmtypes.Continue()}
}

func stop(exit pvmtypes.ExitReason) Result {
	return Result{Exit: exit}
}

// moved wraps a control primitive that already updated ctx.PC.
func moved(ctx *Context, exit pvmtypes.ExitReason) Result {
	if exit.Stops() {
		return stop(exit)
	}
	return Result{Exit: exit, Next: ctx.PC, Jump: true}
}

type (
	Decoder func(window []byte) (Args, error)
	Eval    func(ctx *Context, a Args) Result
)

// Descriptor is the static record of one opcode. Terminates marks opcodes
// that end a basic block. Program precomputes block beginnings from
// program.IsBasicBlockTerminator when it is decoded; the registry test keeps
// both tables in agreement.
type Descriptor struct {
	Opcode     byte
	Name       string
	Gas        int64
	Terminates bool
	Decode     Decoder
	Eval       Eval
}

// Registry maps opcode bytes to descriptors; nil entries are unassigned.
type Registry [256]*Descriptor

func newRegistry(list []Descriptor) *Registry {
	var r Registry
	for i := range list {
		d := &list[i]
		if r[d.Opcode] != nil {
			panic(fmt.Sprintf("interpreter: opcode %d registered twice (%s, %s)", d.Opcode, r[d.Opcode].Name, d.Name))
		}
		if d.Decode == nil || d.Eval == nil {
			panic(fmt.Sprintf("interpreter: opcode %s has no decoder or evaluator", d.Name))
		}
		r[d.Opcode] = d
	}
	return &r
}

var registry = newRegistry(descriptors())

// Lookup returns the descriptor of opcode, or nil when it is unassigned.
func Lookup(opcode byte) *Descriptor {
	return registry[opcode]
}

// op builds the descriptor of opcode from its form and evaluator.
func op(opcode byte, eval Eval) Descriptor {
	return Descriptor{
		Opcode: opcode,
		Name:   program.OpcodeToString(opcode),
		Gas:    TrapCost,
		Decode: decoders[program.FormOf(opcode)],
		Eval:   eval,
	}
}

// term is op for an opcode that ends a basic block.
func term(opcode byte, eval Eval) Descriptor {
	d := op(opcode, eval)
	d.Terminates = true
	return d
}

// Decoders take the full instruction window, opcode byte included.
var decoders = [...]Decoder{
	program.FormNoArgs: func(w []byte) (Args, error) {
		return Args{}, nil
	},
	program.FormOneImm: func(w []byte) (Args, error) {
		return Args{Vx: program.ExtractOneImm(w[1:])}, nil
	},
	program.FormOneRegExtImm: func(w []byte) (Args, error) {
		ra, vx, err := program.ExtractOneRegExtImm(w[1:])
		return Args{RegA: ra, Vx: vx}, err
	},
	program.FormTwoImm: func(w []byte) (Args, error) {
		vx, vy, err := program.ExtractTwoImm(w[1:])
		return Args{Vx: vx, Vy: vy}, err
	},
	program.FormOneOffset: func(w []byte) (Args, error) {
		return Args{Offset: program.ExtractOneOffset(w[1:])}, nil
	},
	program.FormOneRegOneImm: func(w []byte) (Args, error) {
		ra, vx, err := program.ExtractOneRegOneImm(w[1:])
		return Args{RegA: ra, Vx: vx}, err
	},
	program.FormOneRegTwoImm: func(w []byte) (Args, error) {
		ra, vx, vy, err := program.ExtractOneRegTwoImm(w[1:])
		return Args{RegA: ra, Vx: vx, Vy: vy}, err
	},
	program.FormOneRegImmOffset: func(w []byte) (Args, error) {
		ra, vx, off, err := program.ExtractOneRegImmOffset(w[1:])
		return Args{RegA: ra, Vx: vx, Offset: off}, err
	},
	program.FormTwoReg: func(w []byte) (Args, error) {
		rd, ra, err := program.ExtractTwoRegisters(w[1:])
		return Args{RegD: rd, RegA: ra}, err
	},
	program.FormTwoRegOneImm: func(w []byte) (Args, error) {
		ra, rb, vx, err := program.ExtractTwoRegsOneImm(w[1:])
		return Args{RegA: ra, RegB: rb, Vx: vx}, err
	},
	program.FormTwoRegOneOffset: func(w []byte) (Args, error) {
		ra, rb, off, err := program.ExtractTwoRegsOneOffset(w[1:])
		return Args{RegA: ra, RegB: rb, Offset: off}, err
	},
	program.FormTwoRegTwoImm: func(w []byte) (Args, error) {
		ra, rb, vx, vy, err := program.ExtractTwoRegsTwoImm(w[1:])
		return Args{RegA: ra, RegB: rb, Vx: vx, Vy: vy}, err
	},
	program.FormThreeReg: func(w []byte) (Args, error) {
		ra, rb, rd, err := program.ExtractThreeRegs(w[1:])
		return Args{RegA: ra, RegB: rb, RegD: rd}, err
	},
}
