package satyls

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .satyls.yaml is found.
	ErrConfigNotFound = errors.New("satyls: no .satyls.yaml found")

	// ErrUnsupportedRule is returned when Parse is asked for an entry rule
	// it cannot start from.
	ErrUnsupportedRule = errors.New("satyls: unsupported entry rule")

	// ErrInvariantViolation is returned when a tree does not have the shape
	// the grammar guarantees, e.g. a range outside its source text.
	ErrInvariantViolation = errors.New("satyls: invariant violation")
)
