// Package export implements the batch export run: provisioning the
// timestamped output folder, planning which components and occurrences to
// export under the selected traversal strategy, issuing export requests to
// the host, and collecting per-item results into a report.
//
// Exports are best-effort: a failure on one item is recorded with its
// reason and never stops the remaining items.
package export
