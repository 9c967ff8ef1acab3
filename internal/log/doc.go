// Package log provides logging for stlexport on top of the standard slog
// package, with automatic redaction of the user's home directory in logged
// file paths.
//
// Export runs log absolute paths constantly (export folder, per-file
// targets, database location), and on most machines those paths embed the
// account username. Logs are the thing users paste into bug reports, so the
// TildeHandler rewrites any attribute value under the home directory to the
// portable "~/..." form before it reaches the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("folder created", "path", "/home/alice/Desktop/out")
//	// logged as: path=~/Desktop/out
package log
