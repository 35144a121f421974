package domain

import "time"

// DateRange is a half-open time interval [Start, End). Construction enforces
// Start <= End; all interval math in the availability engine builds on it.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and builds a DateRange.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, ErrInvalidTimeRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContainsRange reports whether other fits entirely inside the range.
func (r DateRange) ContainsRange(other DateRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Overlaps reports whether the two ranges share any time.
// Half-open semantics: ranges that only touch at an endpoint do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Minutes returns the range length in whole minutes.
func (r DateRange) Minutes() int {
	return int(r.End.Sub(r.Start) / time.Minute)
}

// Hours returns the range length in hours.
func (r DateRange) Hours() float64 {
	return r.End.Sub(r.Start).Hours()
}

// IsEmpty reports whether the range has zero length.
func (r DateRange) IsEmpty() bool {
	return !r.Start.Before(r.End)
}
