package export

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cadkit/stlexport/internal/cad"
	"github.com/cadkit/stlexport/internal/config"
	"github.com/cadkit/stlexport/internal/model"
	"github.com/cadkit/stlexport/internal/report"
)

// Runner executes a batch export against a design.
// It owns no design state; the design handle and the exporter are injected
// so the same runner logic serves the live host bridge and the in-memory
// test host.
type Runner struct {
	// exporter issues the per-item STL export requests.
	exporter cad.Exporter

	// logger is used for structured logging during the run.
	logger *slog.Logger

	// strategy selects full or shallow traversal.
	strategy Strategy

	// refinement is the default mesh refinement, overridable per component.
	refinement cad.MeshRefinement

	// binary requests binary STL output from the host.
	binary bool

	// jobs is the number of concurrent export requests. 1 keeps the host
	// calls strictly sequential.
	jobs int

	// verify enables read-back of exported files to record facet counts.
	verify bool

	// overrides holds per-component config-file settings. May be nil.
	overrides *config.File
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStrategy selects the traversal strategy. Default is StrategyFull.
func WithStrategy(s Strategy) Option {
	return func(r *Runner) {
		r.strategy = s
	}
}

// WithRefinement sets the default mesh refinement level.
func WithRefinement(ref cad.MeshRefinement) Option {
	return func(r *Runner) {
		r.refinement = ref
	}
}

// WithBinary selects binary (true) or ASCII (false) STL output.
func WithBinary(binary bool) Option {
	return func(r *Runner) {
		r.binary = binary
	}
}

// WithJobs sets the number of concurrent export requests.
// Values below 1 are ignored.
func WithJobs(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.jobs = n
		}
	}
}

// WithVerify enables read-back verification of exported files.
func WithVerify(verify bool) Option {
	return func(r *Runner) {
		r.verify = verify
	}
}

// WithOverrides supplies per-component settings from the config file.
func WithOverrides(overrides *config.File) Option {
	return func(r *Runner) {
		r.overrides = overrides
	}
}

// NewRunner creates a Runner that exports through the given exporter.
func NewRunner(exporter cad.Exporter, opts ...Option) *Runner {
	r := &Runner{
		exporter:   exporter,
		strategy:   StrategyFull,
		refinement: cad.MeshRefinementHigh,
		binary:     true,
		jobs:       1,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run exports the design into folder and returns the run report.
//
// Per-item failures are recorded in the report and never abort the run.
// After both passes the summary file is written into the folder; a summary
// write failure is returned alongside the (complete) report. Context
// cancellation stops unstarted items but the report and summary still cover
// everything attempted.
func (r *Runner) Run(ctx context.Context, design cad.Design, folder string) (*model.ExportReport, error) {
	rep := model.NewExportReport(design.Name(), folder)
	rep.Strategy = r.strategy.String()
	rep.Refinement = r.refinement.String()
	rep.Binary = r.binary

	p := &planner{
		strategy:   r.strategy,
		refinement: r.refinement,
		overrides:  r.overrides,
	}
	items := p.plan(design)

	r.logger.Info("starting export run",
		"design", design.Name(),
		"folder", folder,
		"strategy", r.strategy.String(),
		"items", len(items),
		"jobs", r.jobs,
	)

	// Results are indexed by plan position so concurrent completion order
	// never reorders the report.
	results := make([]model.ExportResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			select {
			case <-gctx.Done():
				res := model.NewExportResult(item.Name, item.Kind, model.OutcomeSkipped)
				res.Reason = "run cancelled"
				results[i] = res
				return gctx.Err()
			default:
			}

			results[i] = r.exportItem(gctx, item, folder)
			return nil
		})
	}

	runErr := g.Wait()

	rep.Results = results
	rep.Finished = time.Now()

	r.logger.Info("export run finished",
		"design", design.Name(),
		"succeeded", rep.Succeeded(),
		"failed", rep.Failed(),
		"skipped", rep.Skipped(),
	)

	// The summary reflects the folder contents even after cancellation, so
	// write it before reporting the run error.
	if err := report.WriteSummaryFile(rep); err != nil {
		r.logger.Error("failed to write summary file", "folder", folder, "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	return rep, runErr
}

// exportItem performs one export attempt and returns its result.
func (r *Runner) exportItem(ctx context.Context, item Item, folder string) model.ExportResult {
	result := model.NewExportResult(item.Name, item.Kind, model.OutcomeSuccess)

	if item.Skip {
		result.Outcome = model.OutcomeSkipped
		result.OutcomeText = model.OutcomeSkipped.String()
		result.Reason = item.SkipReason
		r.logger.Debug("skipping item",
			"name", item.Name,
			"kind", item.Kind.String(),
			"reason", item.SkipReason,
		)
		return result
	}

	filename := SanitizeFilename(item.Name) + ".stl"
	path := filepath.Join(folder, filename)
	result.Filename = filename

	opts := cad.STLOptions{
		Path:       path,
		Refinement: item.Refinement,
		Binary:     r.binary,
	}

	start := time.Now()
	err := r.exporter.ExportSTL(ctx, item.Target, opts)
	result.Duration = time.Since(start)

	if err != nil {
		result.Outcome = model.OutcomeFailed
		result.OutcomeText = model.OutcomeFailed.String()
		result.Reason = err.Error()
		r.logger.Warn("export failed",
			"name", item.Name,
			"kind", item.Kind.String(),
			"file", path,
			"error", err,
		)
		return result
	}

	if r.verify {
		count, verr := ReadFacetCount(path)
		if verr != nil {
			result.Outcome = model.OutcomeFailed
			result.OutcomeText = model.OutcomeFailed.String()
			result.Reason = "verification failed: " + verr.Error()
			r.logger.Warn("verification failed",
				"name", item.Name,
				"file", path,
				"error", verr,
			)
			return result
		}
		result.Triangles = count
	}

	r.logger.Debug("exported",
		"name", item.Name,
		"kind", item.Kind.String(),
		"file", path,
		"duration", result.Duration,
	)
	return result
}

// SummaryPath returns the path of the summary file within an export folder.
func SummaryPath(folder string) string {
	return filepath.Join(folder, config.SummaryFileName)
}
