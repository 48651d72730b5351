package adapter

import "time"

// Clock is the time source of the workers, mocked to drive retry and throttle waits
//
//go:generate mockgen -source=clock.go -destination=../mocks/clock.go -package=mocks -mock_names=Clock=MockClock
type Clock interface {
	// Now stamps ledger events and event ids
	Now() time.Time
	// After fires once d has elapsed, used for interruptible waits
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewClock creates a new real clock implementation
func NewClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
