// Package clock abstracts time so redirect expiry is testable.
package clock

import "time"

// Clock is used instead of calling time.Now() directly wherever expiry or
// scheduling decisions are made.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock delegates to the standard time package.
type RealClock struct{}

func NewRealClock() RealClock {
	return RealClock{}
}

func (c RealClock) Now() time.Time {
	return time.Now()
}
