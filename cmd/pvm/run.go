package main

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/invocation"
	"github.com/colorfulnotion/jampvm/pvm/trace"
	"github.com/spf13/cobra"
)

// cliState is the host-call context threaded through CLI invocations. The
// default host functions do not use it.
type cliState struct{}

func newRunCmd() *cobra.Command {
	var (
		src       programSource
		tracePath string
	)

	var runCmd = &cobra.Command{
		Use:   "run <blob>",
		Short: "Execute a program blob until it stops",
		Long: `Execute a program blob with the GAS and LOG host functions.

With --standard the blob is a standard program: it is laid out in memory
with the --arg bytes and its output is printed when it halts. Otherwise the
blob is a bare program that runs on a 64 KiB sandbox with the argument
bytes at address 0, and the final machine state is printed.

--trace writes one JSON line per executed instruction and always prints
the final machine state. A trace path ending in .zst is zstd-compressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tracePath != "" {
				return runTraced(cmd, &src, args[0], tracePath)
			}
			blob, err := src.blob(args[0])
			if err != nil {
				return err
			}
			input, err := src.input()
			if err != nil {
				return err
			}
			hosts := invocation.DefaultHostFunctions[cliState]()
			out := cmd.OutOrStdout()

			if src.standard {
				res, err := invocation.ArgumentInvocation(cmd.Context(), blob, src.pc, src.gas, input, hosts, &cliState{})
				if err != nil {
					return err
				}
				log.Info(log.PvmCLI, "invocation finished", "exit", res.Exit, "gasUsed", res.GasUsed)
				fmt.Fprintln(out, res)
				return nil
			}

			mem, regs, err := rawMemory(input)
			if err != nil {
				return err
			}
			vm, exit, err := invocation.RunBlob(cmd.Context(), blob, src.pc, src.gas, regs, mem, hosts, &cliState{})
			if err != nil {
				return err
			}
			log.Info(log.PvmCLI, "run finished", "exit", exit, "gasUsed", src.gas-max(vm.Gas, 0))
			printState(out, vm, exit)
			return nil
		},
	}
	src.register(runCmd)
	runCmd.Flags().StringVar(&tracePath, "trace", "", "write an instruction trace (JSON lines) to this file")
	return runCmd
}

func runTraced(cmd *cobra.Command, src *programSource, ref, path string) error {
	vm, err := src.machine(ref)
	if err != nil {
		return err
	}
	rec, err := trace.Create(path)
	if err != nil {
		return err
	}
	exit, err := invocation.HostCallLoopWith(cmd.Context(), vm, invocation.DefaultHostFunctions[cliState](), &cliState{}, rec.Run)
	if cerr := rec.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Info(log.PvmCLI, "traced run finished", "exit", exit, "records", rec.Count(), "trace", path)
	printState(cmd.OutOrStdout(), vm, exit)
	return nil
}
