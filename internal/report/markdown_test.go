package report

import (
	"strings"
	"testing"

	"github.com/cadkit/stlexport/internal/model"
)

// TestMarkdownWriter verifies the Markdown report structure.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("sections and tables", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		if _, err := NewMarkdownWriter(&sb).Write(testReport(t.TempDir())); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := sb.String()

		for _, want := range []string{
			"# STL Export Report",
			"## Outcomes",
			"## Files",
			"Gearbox v3",
			"| Design",
			"Exported",
			"`Bracket.stl`",
			"mesh generation error",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("pie chart for non-empty runs", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		if _, err := NewMarkdownWriter(&sb).Write(testReport(t.TempDir())); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(sb.String(), "```mermaid") {
			t.Error("expected mermaid pie chart")
		}
		if !strings.Contains(sb.String(), "Export Outcome Distribution") {
			t.Error("expected pie chart title")
		}
	})

	t.Run("warning alert when failures exist", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		if _, err := NewMarkdownWriter(&sb).Write(testReport(t.TempDir())); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(sb.String(), "[!WARNING]") {
			t.Errorf("expected warning alert:\n%s", sb.String())
		}
	})

	t.Run("tip alert when everything succeeded", func(t *testing.T) {
		t.Parallel()

		rep := model.NewExportReport("Clean", t.TempDir())
		rep.Add(model.NewExportResult("Part", model.KindComponent, model.OutcomeSuccess))

		var sb strings.Builder
		if _, err := NewMarkdownWriter(&sb).Write(rep); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(sb.String(), "[!TIP]") {
			t.Errorf("expected tip alert:\n%s", sb.String())
		}
	})

	t.Run("note alert and no file table for empty runs", func(t *testing.T) {
		t.Parallel()

		rep := model.NewExportReport("Empty", t.TempDir())

		var sb strings.Builder
		if _, err := NewMarkdownWriter(&sb).Write(rep); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(sb.String(), "[!NOTE]") {
			t.Errorf("expected note alert:\n%s", sb.String())
		}
		if strings.Contains(sb.String(), "## Files") {
			t.Error("file table should be absent for an empty run")
		}
	})

	t.Run("triangle counts shown when verified", func(t *testing.T) {
		t.Parallel()

		rep := model.NewExportReport("Verified", t.TempDir())
		res := model.NewExportResult("Cube", model.KindComponent, model.OutcomeSuccess)
		res.Filename = "Cube.stl"
		res.Triangles = 12
		rep.Add(res)

		var sb strings.Builder
		if _, err := NewMarkdownWriter(&sb).Write(rep); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(sb.String(), "12") {
			t.Errorf("expected triangle count in file table:\n%s", sb.String())
		}
	})
}
