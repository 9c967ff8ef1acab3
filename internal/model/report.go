package model

import "time"

// ExportReport is the complete record of one export run.
// It accumulates per-item results across the component and occurrence
// passes and is consumed by the report writers and the history database.
type ExportReport struct {
	// DesignName is the display name of the exported design.
	DesignName string `json:"design_name"`

	// Folder is the absolute path of the timestamped export folder.
	Folder string `json:"folder"`

	// Strategy is the traversal strategy used ("full" or "shallow").
	Strategy string `json:"strategy"`

	// Refinement is the mesh refinement level requested from the host.
	Refinement string `json:"refinement"`

	// Binary reports whether binary STL format was requested.
	Binary bool `json:"binary"`

	// Started and Finished bound the run.
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	// Results holds one entry per planned item, in plan order.
	Results []ExportResult `json:"results"`
}

// NewExportReport creates a report for the given design with the start
// time set to now.
func NewExportReport(designName, folder string) *ExportReport {
	return &ExportReport{
		DesignName: designName,
		Folder:     folder,
		Started:    time.Now(),
	}
}

// Add appends a result to the report.
func (r *ExportReport) Add(result ExportResult) {
	r.Results = append(r.Results, result)
}

// Succeeded returns the number of successful exports.
func (r *ExportReport) Succeeded() int {
	return r.countOutcome(OutcomeSuccess)
}

// Failed returns the number of failed exports.
func (r *ExportReport) Failed() int {
	return r.countOutcome(OutcomeFailed)
}

// Skipped returns the number of items excluded before export.
func (r *ExportReport) Skipped() int {
	return r.countOutcome(OutcomeSkipped)
}

// Attempted returns the number of items an export request was issued for.
func (r *ExportReport) Attempted() int {
	return len(r.Results) - r.Skipped()
}

// Total returns the number of planned items.
func (r *ExportReport) Total() int {
	return len(r.Results)
}

// Duration returns the elapsed wall time of the run.
// Returns zero if the run has not finished.
func (r *ExportReport) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Failures returns the failed results, in plan order.
func (r *ExportReport) Failures() []ExportResult {
	var failed []ExportResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *ExportReport) countOutcome(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
