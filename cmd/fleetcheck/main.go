// Command fleetcheck works on inspection history exported from the API and on
// checklist catalog files, without a database.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fleetcheck",
		Short: "Fleet inspection reports and checklist tools",
		Long: `fleetcheck summarizes and exports bus and tram inspection history
saved from GET /api/inspections, and validates checklist catalog files
before they are loaded by fleetcheckd.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}
