package main

import (
	"fmt"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/catalogfile"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with checklist catalog files",
	}

	validateCmd := &cobra.Command{
		Use:   "validate <catalog.toml>",
		Short: "Check that a catalog file is complete and well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := catalogfile.ReadFromFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range catalog.Types() {
				items, err := catalog.Checklist(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-5s %d items\n", t, len(items))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the built-in catalog as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return catalogfile.Write(cmd.OutOrStdout(), fleetcheck.DefaultCatalog())
		},
	}

	catalogCmd.AddCommand(validateCmd, dumpCmd)
	return catalogCmd
}
