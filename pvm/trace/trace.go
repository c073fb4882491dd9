// Package trace records PVM execution as one JSON object per instruction.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colorfulnotion/jampvm/pvm/interpreter"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/klauspost/compress/zstd"
)

// Record is the machine state after one instruction. Exit is empty while
// the machine keeps running; BlockEnd marks an instruction that ends a
// basic block.
type Record struct {
	PC           uint32                           `json:"pc"`
	Opcode       uint8                            `json:"opcode"`
	Name         string                           `json:"name"`
	Gas          int64                            `json:"gas"`
	NextPC       uint32                           `json:"nextPc"`
	BlockEnd     bool                             `json:"blockEnd,omitempty"`
	Exit         string                           `json:"exit,omitempty"`
	HostCall     *uint32                          `json:"hostCall,omitempty"`
	FaultAddress *uint32                          `json:"faultAddress,omitempty"`
	Registers    [interpreter.NumRegisters]uint64 `json:"regs"`
}

var ErrClosed = errors.New("trace recorder is closed")

// Recorder steps a machine and appends a Record per instruction to its
// output. Like the machine it observes, it has a single owner.
type Recorder struct {
	out   *bufio.Writer
	enc   *json.Encoder
	files []io.Closer // closed last to first
	count int
	err   error
}

// NewRecorder buffers records into w. Close flushes but does not close w.
func NewRecorder(w io.Writer) *Recorder {
	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return &Recorder{out: out, enc: enc}
}

// Create truncates or creates path for a Recorder that owns it. A path
// ending in ".zst" is zstd-compressed.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		r := NewRecorder(f)
		r.files = []io.Closer{f}
		return r, nil
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	r := NewRecorder(zw)
	r.files = []io.Closer{f, zw}
	return r, nil
}

// Count is the number of records written so far.
func (r *Recorder) Count() int {
	return r.count
}

// Step executes one instruction of vm and records it.
func (r *Recorder) Step(vm *interpreter.Context) (pvmtypes.ExitReason, error) {
	if r.err != nil {
		return pvmtypes.Panic(), r.err
	}
	rec := Record{PC: vm.PC}
	if vm.Program.IsInstructionStart(vm.PC) {
		rec.Opcode = vm.Program.Code[vm.PC]
		rec.Name = program.OpcodeToString(rec.Opcode)
		if d := interpreter.Lookup(rec.Opcode); d != nil {
			rec.BlockEnd = d.Terminates
		}
	}

	exit := interpreter.Step(vm)

	rec.Gas = vm.Gas
	rec.NextPC = vm.PC
	rec.Registers = vm.Registers
	if exit.Stops() {
		rec.Exit = exit.Kind.String()
	}
	switch exit.Kind {
	case pvmtypes.ExitHostCall:
		id := exit.HostCall
		rec.HostCall = &id
	case pvmtypes.ExitPageFault:
		addr := exit.Address
		rec.FaultAddress = &addr
	}
	if err := r.enc.Encode(&rec); err != nil {
		r.err = fmt.Errorf("trace record %d: %w", r.count, err)
		return exit, r.err
	}
	r.count++
	return exit, nil
}

// Run steps vm until it stops, recording every instruction.
func (r *Recorder) Run(vm *interpreter.Context) (pvmtypes.ExitReason, error) {
	for {
		exit, err := r.Step(vm)
		if err != nil || exit.Stops() {
			return exit, err
		}
	}
}

func (r *Recorder) Flush() error {
	if r.err != nil {
		return r.err
	}
	return r.out.Flush()
}

// Close flushes buffered records and closes what the recorder owns. Later
// steps fail with ErrClosed.
func (r *Recorder) Close() error {
	if errors.Is(r.err, ErrClosed) {
		return nil
	}
	err := r.Flush()
	for i := len(r.files) - 1; i >= 0; i-- {
		if cerr := r.files[i].Close(); err == nil {
			err = cerr
		}
	}
	r.files = nil
	r.err = ErrClosed
	return err
}
