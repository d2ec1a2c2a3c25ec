// Package cli provides the goprofile command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it runs the
// HTTP server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goprofile",
		Short: "Upload CSV and Excel files and profile them",
		Long: `goprofile loads CSV, XLSX and XLS files into a table and produces a
profiling report with descriptive statistics and charts.

Run without a subcommand to start the web application.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config.yaml")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewProfileCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
