package main

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

// inspectFlags selects the program the read-only commands look at.
type inspectFlags struct {
	standard bool
	store    string
}

func (f *inspectFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.standard, "standard", false, "blob is a standard program; inspect its code blob")
	cmd.Flags().StringVar(&f.store, "store", "", "program store directory; <blob> is then a code hash")
}

func (f *inspectFlags) load(ref string) (*program.Program, error) {
	var (
		blob []byte
		err  error
	)
	if f.store != "" {
		blob, err = fetchProgram(f.store, ref)
	} else {
		blob, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, err
	}
	if f.standard {
		sp, err := program.DecodeStandard(blob, nil)
		if err != nil {
			return nil, err
		}
		return sp.Program, nil
	}
	return program.Decode(blob)
}

func newDisasmCmd() *cobra.Command {
	var flags inspectFlags
	var disasmCmd = &cobra.Command{
		Use:   "disasm <blob>",
		Short: "Disassemble a program blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := flags.load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), prog.Disassemble())
			if len(prog.JumpTable) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "jump table:")
				for i, t := range prog.JumpTable {
					fmt.Fprintf(cmd.OutOrStdout(), "  %4d -> %d\n", i, t)
				}
			}
			return nil
		},
	}
	flags.register(disasmCmd)
	return disasmCmd
}

func newStatsCmd() *cobra.Command {
	var flags inspectFlags
	var statsCmd = &cobra.Command{
		Use:   "stats <blob>",
		Short: "Print instruction and basic block statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := flags.load(args[0])
			if err != nil {
				return err
			}
			s := prog.Analyze()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "code size:       %d\n", s.CodeSize)
			fmt.Fprintf(w, "jump table:      %d\n", s.JumpTableSize)
			fmt.Fprintf(w, "instructions:    %d\n", s.InstructionCount)
			fmt.Fprintf(w, "basic blocks:    %d\n", s.BasicBlockCount)
			fmt.Fprintf(w, "invalid opcodes: %d\n", s.InvalidOpcodes)

			ops := slices.Collect(maps.Keys(s.OpcodeDistribution))
			slices.SortFunc(ops, func(a, b byte) int {
				if c := cmp.Compare(s.OpcodeDistribution[b], s.OpcodeDistribution[a]); c != 0 {
					return c
				}
				return cmp.Compare(a, b)
			})
			for _, op := range ops {
				fmt.Fprintf(w, "  %-24s %d\n", program.OpcodeToString(op), s.OpcodeDistribution[op])
			}
			return nil
		},
	}
	flags.register(statsCmd)
	return statsCmd
}

// blockTree renders each basic block as a branch holding its instructions.
func blockTree(prog *program.Program) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("program (%d bytes, %d jump table entries)", prog.Len(), len(prog.JumpTable)))
	for _, b := range prog.BasicBlocks() {
		branch := tree.AddBranch(fmt.Sprintf("block @%d", b.Start))
		for _, inst := range b.Instructions {
			branch.AddNode(fmt.Sprintf("%d: %s", inst.PC, program.DisassembleInstruction(inst)))
		}
	}
	return tree
}

func newBlocksCmd() *cobra.Command {
	var flags inspectFlags
	var blocksCmd = &cobra.Command{
		Use:   "blocks <blob>",
		Short: "Print the basic blocks of a program as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := flags.load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), blockTree(prog).String())
			return nil
		},
	}
	flags.register(blocksCmd)
	return blocksCmd
}
