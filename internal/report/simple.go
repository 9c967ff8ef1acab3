package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cadkit/stlexport/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: plain text with ASCII formatting rather than ANSI
// colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// showSkipped controls whether skipped items are listed individually.
	showSkipped bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowSkipped lists every skipped item with its reason.
func WithShowSkipped(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showSkipped = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.ExportReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCounts(&sb, report)
	w.writeFailures(&sb, report)
	if w.showSkipped {
		w.writeSkipped(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ExportReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        STL EXPORT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Design:     %s\n", report.DesignName))
	sb.WriteString(fmt.Sprintf("Folder:     %s\n", report.Folder))
	sb.WriteString(fmt.Sprintf("Strategy:   %s\n", report.Strategy))
	sb.WriteString(fmt.Sprintf("Refinement: %s\n", report.Refinement))
	sb.WriteString(fmt.Sprintf("Format:     %s STL\n", formatName(report.Binary)))
	if d := report.Duration(); d > 0 {
		sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", d.Round(time.Millisecond)))
	}
	sb.WriteString("\n")
}

// writeCounts writes the outcome summary section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, report *model.ExportReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  EXPORTED: %d\n", report.Succeeded()))
	sb.WriteString(fmt.Sprintf("  FAILED:   %d\n", report.Failed()))
	sb.WriteString(fmt.Sprintf("  SKIPPED:  %d\n", report.Skipped()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d items\n", report.Total()))
	sb.WriteString("\n")
}

// writeFailures lists every failed export with its reason.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.ExportReport) {
	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, f := range failures {
		sb.WriteString(fmt.Sprintf("  [!] %s (%s)\n", f.Name, f.KindText))
		sb.WriteString(fmt.Sprintf("      %s\n", f.Reason))
	}
	sb.WriteString("\n")
}

// writeSkipped lists every skipped item with its reason.
func (w *SimpleWriter) writeSkipped(sb *strings.Builder, report *model.ExportReport) {
	var any bool
	for _, res := range report.Results {
		if res.Outcome != model.OutcomeSkipped {
			continue
		}
		if !any {
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n")
			sb.WriteString("SKIPPED\n")
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n\n")
			any = true
		}
		sb.WriteString(fmt.Sprintf("  [-] %s (%s): %s\n", res.Name, res.KindText, res.Reason))
	}
	if any {
		sb.WriteString("\n")
	}
}
