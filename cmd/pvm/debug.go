package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/interpreter"
	"github.com/colorfulnotion/jampvm/pvm/invocation"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/spf13/cobra"
)

const debugHelp = `commands:
  step [n]          execute n instructions (default 1)
  run               execute until the machine stops
  regs              print pc, gas and registers
  mem <addr> [len]  hex dump len bytes (default 64) at addr
  dis               show the instruction at pc
  quit              leave the debugger
`

// debugger steps a machine one instruction at a time. Host calls are
// serviced as soon as they are reached, so the user only ever sees the
// machine between instructions.
type debugger struct {
	vm    *interpreter.Context
	hosts invocation.HostFunction[cliState]
	state cliState
	exit  pvmtypes.ExitReason
	steps int
}

func newDebugger(vm *interpreter.Context) *debugger {
	return &debugger{
		vm:    vm,
		hosts: invocation.DefaultHostFunctions[cliState](),
		exit:  pvmtypes.Continue(),
	}
}

// stopped reports whether the machine can make no further progress.
func (d *debugger) stopped() bool {
	return d.exit.Stops()
}

func (d *debugger) current() string {
	pc := d.vm.PC
	prog := d.vm.Program
	if !prog.IsInstructionStart(pc) {
		return fmt.Sprintf("%d: <not an instruction start>", pc)
	}
	w := prog.Window(pc)
	return fmt.Sprintf("%d: %s", pc, program.DisassembleInstruction(program.InstructionInfo{PC: pc, Opcode: w[0], Operands: w[1:]}))
}

// step executes one instruction and services the host call it may stop on.
func (d *debugger) step(w io.Writer) {
	exit := interpreter.Step(d.vm)
	d.steps++
	if exit.Kind == pvmtypes.ExitHostCall {
		next, err := d.hosts(exit.HostCall, d.vm, &d.state)
		if err != nil {
			log.Warn(log.PvmCLI, "host call failed", "id", exit.HostCall, "err", err)
			next = pvmtypes.Panic()
		}
		fmt.Fprintf(w, "host call %d -> r7 = 0x%x\n", exit.HostCall, d.vm.Registers[7])
		exit = next
	}
	d.exit = exit
}

func (d *debugger) run(w io.Writer, n int) {
	for i := 0; (n < 0 || i < n) && !d.stopped(); i++ {
		d.step(w)
	}
}

// exec runs one command line and reports whether the session should end.
func (d *debugger) exec(line string, w io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "step", "s":
		n := 1
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil || v < 1 {
				fmt.Fprintf(w, "bad step count %q\n", fields[1])
				return false
			}
			n = v
		}
		if d.stopped() {
			fmt.Fprintf(w, "machine stopped: %s\n", d.exit)
			return false
		}
		d.run(w, n)
		if d.stopped() {
			fmt.Fprintf(w, "machine stopped: %s\n", d.exit)
		}
		fmt.Fprintf(w, "pc=%d gas=%d next %s\n", d.vm.PC, d.vm.Gas, d.current())
	case "run", "r", "c":
		d.run(w, -1)
		printState(w, d.vm, d.exit)
		fmt.Fprintf(w, "steps: %d\n", d.steps)
	case "regs":
		fmt.Fprintf(w, "pc=%d gas=%d\n", d.vm.PC, d.vm.Gas)
		printRegisters(w, d.vm)
	case "mem", "m":
		d.dump(w, fields[1:])
	case "dis":
		fmt.Fprintln(w, d.current())
	case "help", "h", "?":
		fmt.Fprint(w, debugHelp)
	case "quit", "q", "exit":
		return true
	default:
		fmt.Fprintf(w, "unknown command %q, try help\n", fields[0])
	}
	return false
}

func (d *debugger) dump(w io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(w, "usage: mem <addr> [len]")
		return
	}
	addr, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fmt.Fprintf(w, "bad address %q\n", args[0])
		return
	}
	n := uint64(64)
	if len(args) > 1 {
		if n, err = strconv.ParseUint(args[1], 0, 32); err != nil {
			fmt.Fprintf(w, "bad length %q\n", args[1])
			return
		}
	}
	b, err := d.vm.Memory.GetBytes(uint32(addr), uint32(n))
	if err != nil {
		fmt.Fprintf(w, "read 0x%x+%d: %v\n", addr, n, err)
		return
	}
	fmt.Fprint(w, hex.Dump(b))
}

func newDebugCmd() *cobra.Command {
	var src programSource

	var debugCmd = &cobra.Command{
		Use:   "debug <blob>",
		Short: "Step through a program interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := src.machine(args[0])
			if err != nil {
				return err
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "pvm> ",
				HistoryFile: filepath.Join(os.TempDir(), "pvm_debug_history"),
			})
			if err != nil {
				return fmt.Errorf("start readline: %w", err)
			}
			defer rl.Close()

			d := newDebugger(vm)
			w := rl.Stdout()
			fmt.Fprintf(w, "%d bytes of code, gas %d, type help for commands\n", vm.Program.Len(), vm.Gas)
			fmt.Fprintln(w, d.current())
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if line == "" {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if d.exec(line, w) {
					return nil
				}
			}
		},
	}
	src.register(debugCmd)
	return debugCmd
}
