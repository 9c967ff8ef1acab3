package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// TildeHandler wraps an slog.Handler and rewrites string attribute values
// that start with the user's home directory to the "~/..." form.
//
// Design decision: a handler wrapper rather than a custom logger because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep logging real paths; only the output changes
type TildeHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the home directory prefix to rewrite. Empty disables rewriting.
	home string
}

// NewTildeHandler creates a TildeHandler wrapping the given handler.
// The home directory is resolved once at construction; if it cannot be
// determined, paths pass through unchanged.
// If handler is nil, the returned TildeHandler uses slog.Default().Handler().
func NewTildeHandler(handler slog.Handler) *TildeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &TildeHandler{handler: handler, home: home}
}

// newTildeHandlerWithHome is the test seam for a fixed home directory.
func newTildeHandlerWithHome(handler slog.Handler, home string) *TildeHandler {
	return &TildeHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TildeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it on.
func (h *TildeHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *TildeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &TildeHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *TildeHandler) WithGroup(name string) slog.Handler {
	return &TildeHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *TildeHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() == slog.KindString {
		if v, changed := h.rewritePath(a.Value.String()); changed {
			return slog.String(a.Key, v)
		}
	}

	return a
}

// rewritePath replaces a leading home directory with "~".
// Only exact-boundary prefixes are rewritten: /home/alice/x matches,
// /home/aliceb/x does not.
func (h *TildeHandler) rewritePath(v string) (string, bool) {
	if h.home == "" || !strings.HasPrefix(v, h.home) {
		return v, false
	}
	rest := v[len(h.home):]
	if rest != "" && rest[0] != '/' && rest[0] != '\\' {
		return v, false
	}
	return "~" + rest, true
}

// NewLogger creates a *slog.Logger writing text records to w through a
// TildeHandler.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - verbose: if true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTildeHandler(textHandler))
}
