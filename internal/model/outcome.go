package model

// Outcome is the result classification of a single export attempt.
//
// Design decision: we use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Outcome int

const (
	// OutcomeSuccess means the host wrote the STL file without error.
	OutcomeSuccess Outcome = iota

	// OutcomeFailed means the host raised an error for this item, or the
	// exported file failed read-back verification. Failures never abort the
	// batch; they are recorded and the run continues.
	OutcomeFailed

	// OutcomeSkipped means the item was excluded before an export request
	// was issued: a root component without geometry, or a component matched
	// by a skip rule in the configuration file.
	OutcomeSkipped
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeFailed:
		return "FAILED"
	case OutcomeSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// Kind identifies whether an export item is a component definition or an
// assembly occurrence. The same geometry may legitimately appear under both
// kinds in one run: occurrences carry instance context that components lack.
type Kind int

const (
	// KindComponent is a reusable part definition.
	KindComponent Kind = iota

	// KindOccurrence is a positioned instance of a component.
	KindOccurrence
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindOccurrence:
		return "occurrence"
	default:
		return "unknown"
	}
}
