package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cadkit/stlexport/internal/config"
	"github.com/cadkit/stlexport/internal/model"
)

// SummaryWriter renders the EXPORT_SUMMARY.txt report that accompanies
// every export folder.
//
// The file listing is read back from the folder on disk rather than taken
// from the in-memory results. The two can differ: name collisions collapse
// into one file, and unrelated .stl files already in the folder are listed
// too. Disk is what the user actually received, so disk wins.
type SummaryWriter struct {
	baseWriter

	// now is the clock used for the Export Date line. Overridable in tests.
	now func() time.Time
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithClock overrides the wall clock used for the Export Date line.
func WithClock(now func() time.Time) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.now = now
	}
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...SummaryWriterOption) *SummaryWriter {
	w := &SummaryWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary for the given run.
func (w *SummaryWriter) Write(report *model.ExportReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("STL EXPORT SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Export Date: %s\n", w.now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Design Name: %s\n", report.DesignName))
	sb.WriteString(fmt.Sprintf("Total Files Exported: %d\n", report.Succeeded()))
	sb.WriteString(fmt.Sprintf("Export Location: %s\n", report.Folder))
	sb.WriteString("\n")

	sb.WriteString("EXPORTED FILES:\n")
	sb.WriteString(strings.Repeat("-", 30))
	sb.WriteString("\n")

	files, err := listSTLFiles(report.Folder)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if failures := report.Failures(); len(failures) > 0 {
		sb.WriteString("FAILED EXPORTS:\n")
		sb.WriteString(strings.Repeat("-", 30))
		sb.WriteString("\n")
		for _, f := range failures {
			sb.WriteString(fmt.Sprintf("%s (%s): %s\n", f.Name, f.KindText, f.Reason))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("NOTES:\n")
	sb.WriteString(fmt.Sprintf("- Files are exported in %s STL format\n", formatName(report.Binary)))
	sb.WriteString(fmt.Sprintf("- Mesh refinement: %s\n", report.Refinement))
	sb.WriteString("- Invalid characters in names replaced with '_'\n")

	return w.output.Write([]byte(sb.String()))
}

// formatName names the STL encoding for the notes section.
func formatName(binary bool) string {
	if binary {
		return "binary"
	}
	return "ASCII"
}

// listSTLFiles returns the sorted .stl filenames present in folder.
func listSTLFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list export folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".stl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// WriteSummaryFile writes the summary into the run's export folder as
// EXPORT_SUMMARY.txt, overwriting any previous summary.
func WriteSummaryFile(report *model.ExportReport) error {
	path := filepath.Join(report.Folder, config.SummaryFileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path is inside the run's own folder
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	if _, err := NewSummaryWriter(f).Write(report); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
