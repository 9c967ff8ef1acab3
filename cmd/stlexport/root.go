// Package main provides the entry point for the stlexport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for stlexport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stlexport",
		Short: "Batch STL exporter for the active CAD design",
		Long: `stlexport exports every component and assembly occurrence of the active
design in a host CAD application as an individual STL file.

Each run creates a timestamped folder (Fusion_STL_Export_<timestamp>) on
the desktop, exports into it, and writes an EXPORT_SUMMARY.txt report.
The host application performs the actual tessellation; stlexport talks to
it through the bridge add-in's local HTTP listener.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
