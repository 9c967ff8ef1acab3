package model

import "time"

// ExportResult records the outcome of a single export attempt.
//
// Design decision: the original tool tracked only a bare success counter.
// We keep a structured result per item instead so failure reasons survive
// into the summary report and the run history database.
type ExportResult struct {
	// Name is the display name of the component or occurrence, before
	// filename sanitization.
	Name string `json:"name"`

	// Kind says whether this item was exported as a component definition
	// or as an assembly occurrence.
	Kind Kind `json:"kind"`

	// KindText is the human-readable kind.
	KindText string `json:"kind_text"`

	// Filename is the sanitized output filename within the export folder
	// (e.g. "Bracket_1.stl"). Empty for skipped items.
	Filename string `json:"filename,omitempty"`

	// Outcome classifies the attempt.
	Outcome Outcome `json:"outcome"`

	// OutcomeText is the human-readable outcome.
	OutcomeText string `json:"outcome_text"`

	// Reason explains a failure or a skip. Empty on success.
	Reason string `json:"reason,omitempty"`

	// Duration is how long the host took to complete the export request.
	// Zero for skipped items.
	Duration time.Duration `json:"duration_ns,omitempty"`

	// Triangles is the facet count read back from the exported file when
	// verification is enabled. Negative when verification did not run.
	Triangles int64 `json:"triangles,omitempty"`
}

// NewExportResult creates a result for the given item with kind and outcome
// text fields populated.
func NewExportResult(name string, kind Kind, outcome Outcome) ExportResult {
	return ExportResult{
		Name:        name,
		Kind:        kind,
		KindText:    kind.String(),
		Outcome:     outcome,
		OutcomeText: outcome.String(),
		Triangles:   -1,
	}
}

// Succeeded reports whether the export completed without error.
func (r ExportResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
