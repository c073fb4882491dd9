package main

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/testvector"
	"github.com/spf13/cobra"
)

func newVectorCmd() *cobra.Command {
	var verbose bool

	var vectorCmd = &cobra.Command{
		Use:   "vector <json...>",
		Short: "Run PVM test vectors and diff the final state against the expectation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				tc, err := testvector.Load(path)
				if err != nil {
					return err
				}
				out, err := testvector.Run(tc)
				if err != nil {
					return err
				}
				d, err := testvector.Compare(tc, out)
				if err != nil {
					return err
				}
				if d.Match {
					if verbose {
						fmt.Fprintf(w, "PASS %s (%s, gas %d)\n", tc.Name, out.Status(), out.Gas)
					}
					continue
				}
				failed++
				log.Debug(log.PvmCLI, "vector mismatch", "name", tc.Name, "path", path)
				fmt.Fprintf(w, "FAIL %s\n%s\n", tc.Name, d.Text)
			}
			fmt.Fprintf(w, "%d/%d vectors passed\n", len(args)-failed, len(args))
			if failed > 0 {
				return fmt.Errorf("%d vectors failed", failed)
			}
			return nil
		},
	}
	vectorCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list passing vectors")
	return vectorCmd
}
