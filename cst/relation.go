package cst

import "fmt"

// Range is a closed interval of positions with Start <= End.
type Range struct {
	Start Position
	End   Position
}

// Includes reports whether pos lies in the range, both ends inclusive.
func (r Range) Includes(pos Position) bool {
	return r.Start.Compare(pos) <= 0 && pos.Compare(r.End) <= 0
}

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return r.Includes(other.Start) && r.Includes(other.End)
}

// IsContainedIn reports whether r lies entirely within other.
func (r Range) IsContainedIn(other Range) bool {
	return other.Contains(r)
}

// Intersect returns the common part of both ranges. ok is false when they
// do not meet.
func (r Range) Intersect(other Range) (Range, bool) {
	start := r.Start
	if start.Before(other.Start) {
		start = other.Start
	}

	end := r.End
	if other.End.Before(end) {
		end = other.End
	}

	if end.Before(start) {
		return Range{}, false
	}

	return Range{Start: start, End: end}, true
}

// HasIntersect reports whether the ranges share at least one position.
func (r Range) HasIntersect(other Range) bool {
	_, ok := r.Intersect(other)

	return ok
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
