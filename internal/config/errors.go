package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than fresh error
// instances so callers can use errors.Is() while still getting a
// human-readable message.
var (
	// ErrNoHostAddress is returned when the host bridge address is empty.
	ErrNoHostAddress = errors.New("no host address: provide the CAD host bridge address with --host")

	// ErrInvalidTimeout is returned when the host request timeout is not
	// positive. A zero timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidJobs is returned when the concurrency level is not positive.
	// Zero jobs would mean no exports run at all.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidRefinement is returned when the refinement level is outside
	// the range the host accepts.
	ErrInvalidRefinement = errors.New("invalid mesh refinement: must be low, medium, or high")
)
