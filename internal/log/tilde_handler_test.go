package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestLogger returns a logger writing through a TildeHandler with a fixed
// home directory, plus the buffer capturing its output.
func newTestLogger(home string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(newTildeHandlerWithHome(text, home)), &buf
}

// TestTildeHandlerRewritesPaths verifies home directory prefixes are
// rewritten to the tilde form.
func TestTildeHandlerRewritesPaths(t *testing.T) {
	t.Parallel()

	t.Run("home-prefixed path is rewritten", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("/home/alice")
		logger.Info("export folder created", "folder", "/home/alice/Desktop/Fusion_STL_Export_20260825_100000")

		out := buf.String()
		if !strings.Contains(out, "~/Desktop/Fusion_STL_Export_20260825_100000") {
			t.Errorf("expected tilde path in output:\n%s", out)
		}
		if strings.Contains(out, "/home/alice/Desktop") {
			t.Errorf("raw home path leaked:\n%s", out)
		}
	})

	t.Run("home directory itself is rewritten", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("/home/alice")
		logger.Info("msg", "dir", "/home/alice")

		if !strings.Contains(buf.String(), "dir=~") {
			t.Errorf("expected bare tilde:\n%s", buf.String())
		}
	})

	t.Run("prefix boundary is respected", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("/home/alice")
		logger.Info("msg", "dir", "/home/aliceb/data")

		if strings.Contains(buf.String(), "~") {
			t.Errorf("lookalike prefix should not be rewritten:\n%s", buf.String())
		}
	})

	t.Run("non-path strings pass through", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("/home/alice")
		logger.Info("msg", "design", "Gearbox v3")

		if !strings.Contains(buf.String(), "Gearbox v3") {
			t.Errorf("value altered:\n%s", buf.String())
		}
	})

	t.Run("empty home disables rewriting", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("")
		logger.Info("msg", "folder", "/home/alice/Desktop")

		if strings.Contains(buf.String(), "~") {
			t.Errorf("nothing should be rewritten without a home dir:\n%s", buf.String())
		}
	})

	t.Run("attrs added via With are rewritten", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("/home/alice")
		logger.With("db", "/home/alice/.local/share/stlexport/stlexport.db").Info("opened")

		if !strings.Contains(buf.String(), "~/.local/share/stlexport/stlexport.db") {
			t.Errorf("With attrs not rewritten:\n%s", buf.String())
		}
	})

	t.Run("group attrs are rewritten recursively", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger("/home/alice")
		logger.Info("msg", slog.Group("paths", slog.String("out", "/home/alice/out.stl")))

		if !strings.Contains(buf.String(), "~/out.stl") {
			t.Errorf("group attr not rewritten:\n%s", buf.String())
		}
	})
}

// TestNewLogger verifies log level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("hidden")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("info should be suppressed without verbose")
		}
		if !strings.Contains(out, "visible") {
			t.Error("warnings should always appear")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("details")
		if !strings.Contains(buf.String(), "details") {
			t.Error("debug should appear with verbose")
		}
	})
}
