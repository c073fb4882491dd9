package main

import (
	"fmt"
	"io"
	"os"

	"github.com/colorfulnotion/jampvm/common"
	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/interpreter"
	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/colorfulnotion/jampvm/storage"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

// programSource holds the flags shared by the commands that execute a
// program: where the blob comes from and the state it starts in.
type programSource struct {
	gas      int64
	pc       uint32
	standard bool
	arg      string
	store    string
}

func (s *programSource) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64Var(&s.gas, "gas", 1_000_000, "initial gas")
	f.Uint32Var(&s.pc, "pc", 0, "initial program counter")
	f.BoolVar(&s.standard, "standard", false, "blob is a standard program (ro data, rw data, heap, stack, code)")
	f.StringVar(&s.arg, "arg", "0x", "argument bytes in hex")
	f.StringVar(&s.store, "store", "", "program store directory; <blob> is then a code hash")
}

func (s *programSource) input() ([]byte, error) {
	b, err := hexutil.Decode(s.arg)
	if err != nil {
		return nil, fmt.Errorf("--arg %q: %w", s.arg, err)
	}
	return b, nil
}

// blob reads ref from the program store when --store is set and from the
// file system otherwise.
func (s *programSource) blob(ref string) ([]byte, error) {
	if s.store == "" {
		return os.ReadFile(ref)
	}
	return fetchProgram(s.store, ref)
}

func fetchProgram(path, ref string) ([]byte, error) {
	h, err := parseHash(ref)
	if err != nil {
		return nil, err
	}
	ps, err := storage.OpenProgramStore(path)
	if err != nil {
		return nil, err
	}
	defer ps.Close()
	return ps.Get(h)
}

func parseHash(ref string) (common.Hash, error) {
	b, err := hexutil.Decode(ref)
	if err != nil || len(b) != 32 {
		return common.Hash{}, fmt.Errorf("%q is not a 32 byte code hash", ref)
	}
	return common.BytesToHash(b), nil
}

// rawMemory places the argument bytes at address 0 of a sandbox and points
// r7/r8 at them.
func rawMemory(input []byte) (*memory.Sandbox, [interpreter.NumRegisters]uint64, error) {
	var regs [interpreter.NumRegisters]uint64
	mem := memory.NewDefaultSandbox()
	if err := mem.SetBytes(0, input); err != nil {
		return nil, regs, fmt.Errorf("argument does not fit the sandbox: %w", err)
	}
	regs[8] = uint64(len(input))
	return mem, regs, nil
}

// machine decodes ref into a context ready to step from --pc.
func (s *programSource) machine(ref string) (*interpreter.Context, error) {
	blob, err := s.blob(ref)
	if err != nil {
		return nil, err
	}
	input, err := s.input()
	if err != nil {
		return nil, err
	}
	if s.standard {
		sp, err := program.DecodeStandard(blob, input)
		if err != nil {
			return nil, err
		}
		vm := interpreter.NewContext(sp.Program, sp.Memory, s.gas, sp.Registers)
		vm.PC = s.pc
		return vm, nil
	}
	prog, err := program.Decode(blob)
	if err != nil {
		return nil, err
	}
	mem, regs, err := rawMemory(input)
	if err != nil {
		return nil, err
	}
	vm := interpreter.NewContext(prog, mem, s.gas, regs)
	vm.PC = s.pc
	log.Debug(log.PvmCLI, "program loaded", "code", prog.Len(), "jumps", len(prog.JumpTable))
	return vm, nil
}

func printState(w io.Writer, vm *interpreter.Context, exit pvmtypes.ExitReason) {
	fmt.Fprintf(w, "exit: %s\n", exit)
	fmt.Fprintf(w, "pc:   %d\n", vm.PC)
	fmt.Fprintf(w, "gas:  %d\n", vm.Gas)
	printRegisters(w, vm)
}

func printRegisters(w io.Writer, vm *interpreter.Context) {
	for i, v := range vm.Registers {
		fmt.Fprintf(w, "%-3s = 0x%016x", program.RegisterNames[i], v)
		if i%4 == 3 || i == len(vm.Registers)-1 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, "  ")
		}
	}
}
