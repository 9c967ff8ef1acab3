package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cadkit/stlexport/internal/model"
)

// TestJSONWriter verifies the machine-readable report output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through encoding/json", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		rep := testReport(t.TempDir())
		if _, err := NewJSONWriter(&sb).Write(rep); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var decoded model.ExportReport
		if err := json.Unmarshal([]byte(sb.String()), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if decoded.DesignName != rep.DesignName {
			t.Errorf("design_name = %q, want %q", decoded.DesignName, rep.DesignName)
		}
		if len(decoded.Results) != len(rep.Results) {
			t.Errorf("results length = %d, want %d", len(decoded.Results), len(rep.Results))
		}
		if decoded.Failed() != 1 {
			t.Errorf("decoded failure count = %d, want 1", decoded.Failed())
		}
	})

	t.Run("pretty print is indented", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		if _, err := NewJSONWriter(&sb, WithPrettyPrint()).Write(testReport(t.TempDir())); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(sb.String(), "\n  \"") {
			t.Error("expected indented output with pretty print")
		}
	})

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		if _, err := NewJSONWriter(&sb).Write(testReport(t.TempDir())); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		// Single line plus the trailing newline.
		if strings.Count(sb.String(), "\n") != 1 {
			t.Errorf("expected single-line output, got %d newlines", strings.Count(sb.String(), "\n"))
		}
	})
}
