// Package model defines the report domain for stlexport: per-item export
// results, run-level reports, and the outcome taxonomy shared by the export
// runner, the report writers, and the run history database.
package model
