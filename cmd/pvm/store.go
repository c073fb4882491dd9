package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/storage"
	"github.com/spf13/cobra"
)

func newStoreCmd() *cobra.Command {
	var dbPath string

	var storeCmd = &cobra.Command{
		Use:   "store",
		Short: "Manage the content-addressed program store",
	}
	storeCmd.PersistentFlags().StringVar(&dbPath, "db", "pvm-programs", "program store directory")

	open := func() (*storage.ProgramStore, error) {
		return storage.OpenProgramStore(dbPath)
	}

	var putCmd = &cobra.Command{
		Use:   "put <blob...>",
		Short: "Store program blobs and print their code hashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := open()
			if err != nil {
				return err
			}
			defer ps.Close()
			for _, path := range args {
				blob, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				h, err := ps.Put(blob)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				log.Info(log.PvmCLI, "stored program", "path", path, "hash", h)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.Hex(), path)
			}
			return nil
		},
	}

	var output string
	var getCmd = &cobra.Command{
		Use:   "get <hash>",
		Short: "Fetch a program blob by code hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := fetchProgram(dbPath, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%x\n", blob)
				return nil
			}
			return os.WriteFile(output, blob, 0o644)
		},
	}
	getCmd.Flags().StringVarP(&output, "output", "o", "", "write the blob to this file instead of printing it in hex")

	var lsCmd = &cobra.Command{
		Use:   "ls",
		Short: "List stored code hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := open()
			if err != nil {
				return err
			}
			defer ps.Close()
			hashes, err := ps.List()
			if err != nil {
				return err
			}
			for _, h := range hashes {
				fmt.Fprintln(cmd.OutOrStdout(), h.Hex())
			}
			return nil
		},
	}

	var rmCmd = &cobra.Command{
		Use:   "rm <hash>",
		Short: "Delete a stored program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseHash(args[0])
			if err != nil {
				return err
			}
			ps, err := open()
			if err != nil {
				return err
			}
			defer ps.Close()
			return ps.Delete(h)
		},
	}

	storeCmd.AddCommand(putCmd, getCmd, lsCmd, rmCmd)
	return storeCmd
}
