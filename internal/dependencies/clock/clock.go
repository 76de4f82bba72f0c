// Package clock supplies wall-clock time to the services that stamp saves,
// accounts and token expiry.
package clock

import "time"

// Clock reports the current time. Implementations return UTC so stored
// timestamps compare and serialise the same on every host.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
