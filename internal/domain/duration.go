package domain

import "time"

// Duration is a service duration in whole minutes, never negative.
type Duration int

// NewDuration validates and builds a Duration.
func NewDuration(minutes int) (Duration, error) {
	if minutes < 0 {
		return 0, ErrNegativeDuration
	}
	return Duration(minutes), nil
}

// Minutes returns the duration in minutes.
func (d Duration) Minutes() int {
	return int(d)
}

// Add returns the sum of two durations.
func (d Duration) Add(other Duration) Duration {
	return d + other
}

// Sub returns the difference; a result below zero is rejected.
func (d Duration) Sub(other Duration) (Duration, error) {
	if other > d {
		return 0, ErrNegativeDuration
	}
	return d - other, nil
}

// AsTime converts to a time.Duration for window arithmetic.
func (d Duration) AsTime() time.Duration {
	return time.Duration(d) * time.Minute
}
