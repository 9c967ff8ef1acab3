package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/cadkit/stlexport/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, designed for
// documentation and sharing.
//
// Design decision: the nao1215/markdown library gives type-safe generation
// of tables, alerts, and mermaid charts instead of hand-assembled strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ExportReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOutcomes(md, report)
	w.writeFiles(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ExportReport) {
	md.H1("STL Export Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Design", report.DesignName},
			{"Folder", "`" + report.Folder + "`"},
			{"Strategy", report.Strategy},
			{"Refinement", report.Refinement},
			{"Format", formatName(report.Binary) + " STL"},
			{"Started", report.Started.Format("2006-01-02 15:04:05")},
			{"Elapsed", report.Duration().Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

// writeOutcomes writes the outcome summary with a distribution chart.
func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, report *model.ExportReport) {
	md.H2("Outcomes")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ Exported", strconv.Itoa(report.Succeeded())},
			{"❌ Failed", strconv.Itoa(report.Failed())},
			{"⏭️ Skipped", strconv.Itoa(report.Skipped())},
			{"**Total**", "**" + strconv.Itoa(report.Total()) + "**"},
		},
	})
	md.PlainText("")

	if report.Total() > 0 {
		w.writePieChart(md, report)
	}

	switch {
	case report.Failed() > 0:
		md.Warningf("%d export(s) failed. See the file table below for reasons.", report.Failed())
	case report.Succeeded() > 0:
		md.Tip("All planned exports completed successfully.")
	default:
		md.Note("Nothing was exported. The design has no geometry to export.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ExportReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Export Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if n := report.Succeeded(); n > 0 {
		chart.LabelAndIntValue("Exported", uint64(n))
	}
	if n := report.Failed(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}
	if n := report.Skipped(); n > 0 {
		chart.LabelAndIntValue("Skipped", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFiles writes the per-item result table.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, report *model.ExportReport) {
	if report.Total() == 0 {
		return
	}

	md.H2("Files")
	md.PlainText("")

	rows := make([][]string, 0, report.Total())
	for _, res := range report.Results {
		file := res.Filename
		if file != "" {
			file = "`" + file + "`"
		}
		triangles := ""
		if res.Triangles >= 0 {
			triangles = strconv.FormatInt(res.Triangles, 10)
		}
		rows = append(rows, []string{
			res.Name,
			res.KindText,
			file,
			res.OutcomeText,
			triangles,
			res.Reason,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "Kind", "File", "Outcome", "Triangles", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}
