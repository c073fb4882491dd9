// Package testvector runs PVM conformance vectors in the JSON format of the
// JAM test vectors and reports mismatches as a JSON diff.
package testvector

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/colorfulnotion/jampvm/pvm/interpreter"
	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

type MemoryChunk struct {
	Address  uint32 `json:"address"`
	Contents []byte `json:"contents"`
}

type PageMap struct {
	Address    uint32 `json:"address"`
	Length     uint32 `json:"length"`
	IsWritable bool   `json:"is-writable"`
}

type TestCase struct {
	Name           string        `json:"name"`
	InitialRegs    []uint64      `json:"initial-regs"`
	InitialPC      uint32        `json:"initial-pc"`
	InitialPageMap []PageMap     `json:"initial-page-map"`
	InitialMemory  []MemoryChunk `json:"initial-memory"`
	InitialGas     int64         `json:"initial-gas"`
	Program        []byte        `json:"program"`

	ExpectedStatus           string        `json:"expected-status"`
	ExpectedRegs             []uint64      `json:"expected-regs"`
	ExpectedPC               uint32        `json:"expected-pc"`
	ExpectedMemory           []MemoryChunk `json:"expected-memory"`
	ExpectedGas              int64         `json:"expected-gas"`
	ExpectedPageFaultAddress uint32        `json:"expected-page-fault-address,omitempty"`
}

// Load reads one vector file.
func Load(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*TestCase, error) {
	var tc TestCase
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parse test vector: %w", err)
	}
	if len(tc.InitialRegs) > interpreter.NumRegisters {
		return nil, fmt.Errorf("test vector %s: %d initial registers", tc.Name, len(tc.InitialRegs))
	}
	if len(tc.ExpectedRegs) > interpreter.NumRegisters {
		return nil, fmt.Errorf("test vector %s: %d expected registers", tc.Name, len(tc.ExpectedRegs))
	}
	return &tc, nil
}

// Outcome is the machine state after running a vector.
type Outcome struct {
	Exit   pvmtypes.ExitReason
	Regs   [interpreter.NumRegisters]uint64
	PC     uint32
	Gas    int64
	Memory memory.Memory
}

// Status names the exit the way the vectors do.
func (o *Outcome) Status() string {
	return o.Exit.Kind.String()
}

// Run executes tc on a paged memory built from its page map and initial
// memory. Host calls stop the run.
func Run(tc *TestCase) (*Outcome, error) {
	ram := memory.NewPagedRAM()
	for _, pm := range tc.InitialPageMap {
		mode := memory.ReadOnly
		if pm.IsWritable {
			mode = memory.ReadWrite
		}
		if err := ram.SetAccess(pm.Address/memory.PageSize, pvmtypes.CeilingDivide(pm.Length, memory.PageSize), mode); err != nil {
			return nil, fmt.Errorf("test vector %s: %w", tc.Name, err)
		}
	}
	for _, chunk := range tc.InitialMemory {
		ram.Load(chunk.Address, chunk.Contents)
	}
	var regs [interpreter.NumRegisters]uint64
	copy(regs[:], tc.InitialRegs)

	prog, err := program.Decode(tc.Program)
	if err != nil {
		return &Outcome{Exit: pvmtypes.Panic(), Regs: regs, PC: tc.InitialPC, Gas: tc.InitialGas, Memory: ram}, nil
	}
	ctx := interpreter.NewContext(prog, ram, tc.InitialGas, regs)
	ctx.PC = tc.InitialPC
	exit := interpreter.Run(ctx)
	return &Outcome{Exit: exit, Regs: ctx.Registers, PC: ctx.PC, Gas: ctx.Gas, Memory: ram}, nil
}

// postState is the comparable view of a run. Registers and memory are hex
// strings so 64-bit values survive the float64 numbers of the differ.
type postState struct {
	Status           string           `json:"status"`
	Regs             []hexutil.Uint64 `json:"regs"`
	PC               uint32           `json:"pc"`
	Gas              int64            `json:"gas"`
	Memory           []memoryView     `json:"memory"`
	PageFaultAddress *hexutil.Uint64  `json:"page-fault-address,omitempty"`
}

type memoryView struct {
	Address  hexutil.Uint64 `json:"address"`
	Contents hexutil.Bytes  `json:"contents"`
}

func statusOf(s string) string {
	// older vectors call a panic a trap
	if s == "trap" {
		return pvmtypes.ExitPanic.String()
	}
	return s
}

func expectedState(tc *TestCase) postState {
	regs := make([]hexutil.Uint64, interpreter.NumRegisters)
	for i, r := range tc.ExpectedRegs {
		regs[i] = hexutil.Uint64(r)
	}
	ps := postState{
		Status: statusOf(tc.ExpectedStatus),
		Regs:   regs,
		PC:     tc.ExpectedPC,
		Gas:    tc.ExpectedGas,
		Memory: []memoryView{},
	}
	for _, chunk := range tc.ExpectedMemory {
		ps.Memory = append(ps.Memory, memoryView{Address: hexutil.Uint64(chunk.Address), Contents: chunk.Contents})
	}
	if ps.Status == pvmtypes.ExitPageFault.String() {
		addr := hexutil.Uint64(tc.ExpectedPageFaultAddress)
		ps.PageFaultAddress = &addr
	}
	return ps
}

// actualState reads back the ranges the vector expects, so untouched memory
// outside them does not show up in the diff.
func actualState(tc *TestCase, out *Outcome) postState {
	ps := postState{
		Status: out.Status(),
		Regs:   make([]hexutil.Uint64, 0, interpreter.NumRegisters),
		PC:     out.PC,
		Gas:    out.Gas,
		Memory: []memoryView{},
	}
	for _, r := range out.Regs {
		ps.Regs = append(ps.Regs, hexutil.Uint64(r))
	}
	for _, chunk := range tc.ExpectedMemory {
		view := memoryView{Address: hexutil.Uint64(chunk.Address)}
		if b, err := out.Memory.GetBytes(chunk.Address, uint32(len(chunk.Contents))); err == nil {
			view.Contents = b
		}
		ps.Memory = append(ps.Memory, view)
	}
	if out.Exit.Kind == pvmtypes.ExitPageFault {
		addr := hexutil.Uint64(out.Exit.Address)
		ps.PageFaultAddress = &addr
	}
	return ps
}

// Diff is the result of comparing a run against its vector. Text is an
// ASCII rendering of the expected state with the differences marked.
type Diff struct {
	Match bool
	Text  string
}

// Compare checks out against the expectations of tc.
func Compare(tc *TestCase, out *Outcome) (Diff, error) {
	expected, err := toObject(expectedState(tc))
	if err != nil {
		return Diff{}, err
	}
	actual, err := toObject(actualState(tc, out))
	if err != nil {
		return Diff{}, err
	}
	d := gojsondiff.New().CompareObjects(expected, actual)
	if !d.Modified() {
		return Diff{Match: true}, nil
	}
	f := formatter.NewAsciiFormatter(expected, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	text, err := f.Format(d)
	if err != nil {
		return Diff{}, fmt.Errorf("format diff: %w", err)
	}
	return Diff{Text: strings.TrimRight(text, "\n")}, nil
}

// toObject turns v into the generic JSON form the differ works on.
func toObject(v any) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
