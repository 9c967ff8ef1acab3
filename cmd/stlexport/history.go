package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadkit/stlexport/internal/config"
	"github.com/cadkit/stlexport/internal/database"
)

// NewHistoryCmd creates the history command.
// This command inspects export runs recorded in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past export runs",
		Long: `History lists export runs recorded in the local history database.

Every 'stlexport export' run (unless started with --no-save) records the
design name, the export folder, the chosen strategy and refinement, and
the per-file outcomes.

Examples:
  # List the most recent runs across all designs
  stlexport history

  # List runs for a single design
  stlexport history --design "Gearbox v3"

  # Show the per-file results of run 5
  stlexport history --run-id 5

  # List all designs present in the history
  stlexport history --list-designs

  # Output a run as JSON
  stlexport history --run-id 5 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("design", "d", "",
		"Only show runs for the named design")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 = no limit)")
	cmd.Flags().Int64P("run-id", "i", 0,
		"Show the per-file results of a specific run")
	cmd.Flags().BoolP("list-designs", "L", false,
		"List all design names present in the history")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (only with --run-id)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	designName, err := cmd.Flags().GetString("design")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}
	listDesigns, err := cmd.Flags().GetBool("list-designs")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Open read-only: a missing database means nothing was ever exported,
	// which is worth a friendlier message than a creation side effect.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		fmt.Println("No export history found.")
		fmt.Println("\nUse 'stlexport export' to export a design and record a run.")
		return nil
	}
	defer db.Close()

	ctx := context.Background()

	if listDesigns {
		return listHistoryDesigns(ctx, db)
	}

	if runID > 0 {
		return showRunDetail(ctx, db, runID, jsonOutput)
	}

	return listHistoryRuns(ctx, db, designName, limit)
}

// listHistoryDesigns lists all design names that have recorded runs.
func listHistoryDesigns(ctx context.Context, db *database.HistoryDB) error {
	designs, err := db.ListDesigns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list designs: %w", err)
	}

	if len(designs) == 0 {
		fmt.Println("No designs found in the history database.")
		fmt.Println("\nUse 'stlexport export' to export a design and record a run.")
		return nil
	}

	fmt.Printf("Designs with export history (%d):\n\n", len(designs))
	for _, d := range designs {
		fmt.Printf("  • %s\n", d)
	}
	fmt.Println("\nUse 'stlexport history --design <name>' to see runs for a design.")

	return nil
}

// listHistoryRuns lists stored runs, newest first.
func listHistoryRuns(ctx context.Context, db *database.HistoryDB, designName string, limit int) error {
	runs, err := db.ListRuns(ctx, designName, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		if designName != "" {
			fmt.Printf("No export runs found for %s\n", designName)
		} else {
			fmt.Println("No export runs found.")
		}
		fmt.Println("\nUse 'stlexport export' to export a design and record a run.")
		return nil
	}

	if designName != "" {
		fmt.Printf("Export runs for %s (%d):\n\n", designName, len(runs))
	} else {
		fmt.Printf("Export runs (%d):\n\n", len(runs))
	}

	fmt.Printf("  %-6s  %-20s  %-24s  %-8s  %s\n", "ID", "Date", "Design", "Strategy", "Results")
	fmt.Println("  " + strings.Repeat("-", 80))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-24s  %-8s  %s\n",
			run.ID,
			run.Started.Local().Format("2006-01-02 15:04:05"),
			truncateName(run.DesignName, 24),
			run.Strategy,
			formatRunCounts(run),
		)
	}

	fmt.Println("\nUse 'stlexport history --run-id <id>' to see per-file results.")

	return nil
}

// showRunDetail prints one run and its per-file results.
func showRunDetail(ctx context.Context, db *database.HistoryDB, runID int64, jsonOutput bool) error {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", runID, err)
	}
	if run == nil {
		return fmt.Errorf("run %d not found (use 'stlexport history' to list runs)", runID)
	}

	files, err := db.GetRunFiles(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get files for run %d: %w", runID, err)
	}

	if jsonOutput {
		data, err := database.MarshalRun(run, files)
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	fmt.Printf("Run %d: %s\n", run.ID, run.DesignName)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nDate:       %s\n", run.Started.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration:   %s\n", run.Finished.Sub(run.Started).Round(time.Millisecond))
	fmt.Printf("Folder:     %s\n", run.Folder)
	fmt.Printf("Strategy:   %s\n", run.Strategy)
	fmt.Printf("Refinement: %s\n", run.Refinement)
	fmt.Printf("Format:     %s\n", formatRunFormat(run.Binary))
	fmt.Printf("Results:    %s\n", formatRunCounts(*run))

	if len(files) == 0 {
		fmt.Println("\nNo per-file results recorded for this run.")
		return nil
	}

	fmt.Printf("\nFiles (%d):\n", len(files))
	fmt.Printf("  %-10s  %-12s  %-30s  %s\n", "Outcome", "Kind", "Name", "Detail")
	fmt.Println("  " + strings.Repeat("-", 80))

	for _, f := range files {
		detail := f.Filename
		if f.Reason != "" {
			detail = f.Reason
		}
		fmt.Printf("  %-10s  %-12s  %-30s  %s\n",
			f.Outcome,
			f.Kind,
			truncateName(f.Name, 30),
			detail,
		)
	}

	return nil
}

// formatRunCounts renders succeeded/failed/skipped totals for display.
func formatRunCounts(run database.RunRecord) string {
	parts := []string{fmt.Sprintf("ok:%d", run.Succeeded)}
	if run.Failed > 0 {
		parts = append(parts, fmt.Sprintf("failed:%d", run.Failed))
	}
	if run.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("skipped:%d", run.Skipped))
	}
	return strings.Join(parts, " ")
}

// formatRunFormat renders the STL format flag for display.
func formatRunFormat(binary bool) string {
	if binary {
		return "binary STL"
	}
	return "ASCII STL"
}

// truncateName shortens a name to max characters for column display.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	if max <= 3 {
		return name[:max]
	}
	return name[:max-3] + "..."
}
