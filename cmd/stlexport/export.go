package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadkit/stlexport/internal/cad"
	"github.com/cadkit/stlexport/internal/cad/fusion"
	"github.com/cadkit/stlexport/internal/config"
	"github.com/cadkit/stlexport/internal/database"
	"github.com/cadkit/stlexport/internal/export"
	"github.com/cadkit/stlexport/internal/log"
	"github.com/cadkit/stlexport/internal/model"
	"github.com/cadkit/stlexport/internal/report"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active design's components and occurrences as STL files",
		Long: `Export connects to the CAD host bridge, enumerates the active design,
and exports each component and assembly occurrence as an individual STL
file into a fresh timestamped folder on the desktop.

The full strategy (default) exports every component in the design (the
root is skipped only when it has no geometry), then every occurrence
under the root, recursively. A component referenced by several
occurrences is exported once per reference; occurrences carry instance
context the component definition lacks. Use --shallow to export only the
root component and its direct children.

Failures on individual items never stop the run: they are recorded with
their reason and listed in the report and in EXPORT_SUMMARY.txt.

Examples:
  # Export everything at high refinement into a desktop folder
  stlexport export

  # Export into a different directory at medium refinement
  stlexport export --output /srv/prints --refinement medium

  # Shallow export, ASCII STL, four concurrent host requests
  stlexport export --shallow --ascii --jobs 4

  # Verify exported files and emit a Markdown report
  stlexport export --verify --markdown -o report.md

Configuration file (.stlexport) example:
  defaults:
    refinement: high
  components:
    "Fastener*":
      skip: true
    "Housing":
      refinement: medium`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	// Host connection flags
	cmd.Flags().StringP("host", "H", config.DefaultHostAddress,
		"Address of the CAD host bridge (host:port)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each host request")

	// Export behavior flags
	cmd.Flags().String("output", "",
		"Directory to create the export folder under (default: desktop)")
	cmd.Flags().StringP("refinement", "r", config.DefaultRefinement.String(),
		"Mesh refinement quality: low, medium, or high")
	cmd.Flags().Bool("ascii", false,
		"Export ASCII STL instead of binary")
	cmd.Flags().Bool("shallow", false,
		"Export only the root component and its direct child occurrences")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs,
		"Number of concurrent export requests (1 = strictly sequential)")
	cmd.Flags().Bool("verify", false,
		"Read back each exported file and record its facet count")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .stlexport in current or home directory)")

	// Report flags
	cmd.Flags().Bool("json", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExport(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.HostAddress, err = cmd.Flags().GetString("host")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.OutputRoot, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	refinement, err := cmd.Flags().GetString("refinement")
	if err != nil {
		return nil, err
	}
	cfg.Refinement, err = cad.ParseMeshRefinement(refinement)
	if err != nil {
		return nil, err
	}

	cfg.ASCII, err = cmd.Flags().GetBool("ascii")
	if err != nil {
		return nil, err
	}

	cfg.Shallow, err = cmd.Flags().GetBool("shallow")
	if err != nil {
		return nil, err
	}

	cfg.Jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}

	cfg.Verify, err = cmd.Flags().GetBool("verify")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-component overrides from the config file.
	// If the user explicitly specified a path, error if it is missing;
	// otherwise silently run with an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Overrides, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Overrides = &config.File{
			Components: make(map[string]config.ComponentConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report-file")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runExport executes the export run.
func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting export",
		"host", cfg.HostAddress,
		"strategy", cfg.StrategyName(),
		"refinement", cfg.Refinement.String(),
		"jobs", cfg.Jobs,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	// Connect to the host bridge and fetch the active design
	client, err := fusion.NewClient(cfg.HostAddress, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create host bridge client: %w", err)
	}

	design, err := client.FetchDesign(ctx)
	if err != nil {
		if errors.Is(err, fusion.ErrNoActiveDesign) {
			return errors.New("no active design found (open a design in the host application first)")
		}
		return fmt.Errorf("failed to fetch active design: %w", err)
	}

	logger.Info("fetched design",
		"design", design.Name(),
		"components", len(design.AllComponents()),
		"occurrences", len(design.AllOccurrences()),
	)

	// Provision the timestamped export folder
	outputRoot := cfg.OutputRoot
	if outputRoot == "" {
		outputRoot = config.DesktopDir()
	}
	folder, err := export.CreateFolder(outputRoot, time.Now())
	if err != nil {
		return err
	}
	logger.Info("export folder created", "folder", folder)

	// Run the export
	strategy := export.StrategyFull
	if cfg.Shallow {
		strategy = export.StrategyShallow
	}

	runner := export.NewRunner(client,
		export.WithLogger(logger),
		export.WithStrategy(strategy),
		export.WithRefinement(cfg.Refinement),
		export.WithBinary(!cfg.ASCII),
		export.WithJobs(cfg.Jobs),
		export.WithVerify(cfg.Verify),
		export.WithOverrides(cfg.Overrides),
	)

	startTime := time.Now()
	rep, runErr := runner.Run(ctx, design, folder)
	elapsed := time.Since(startTime)

	// Output the report even when the run was cut short; everything
	// attempted so far is in it.
	if err := outputReport(cfg, rep); err != nil {
		logger.Error("report output failed", "error", err)
	}

	// Save to the history database if enabled
	if err := saveRun(ctx, db, rep, logger); err != nil {
		logger.Error("failed to save run", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("export run aborted after %s: %w", elapsed.Round(time.Millisecond), runErr)
	}

	fmt.Printf("STL export complete: %d file(s) in %s\n", rep.Succeeded(), elapsed.Round(time.Millisecond))
	fmt.Printf("Export folder: %s\n", folder)
	if rep.Failed() > 0 {
		fmt.Printf("Warning: %d export(s) failed; see the report for reasons.\n", rep.Failed())
	}

	return nil
}

// outputReport writes the run report in the requested format.
func outputReport(cfg *config.Config, rep *model.ExportReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(rep)
	return err
}

// saveRun stores the run in the history database.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.HistoryDB, rep *model.ExportReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRun(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to history", "runID", id, "design", rep.DesignName)
	return nil
}
