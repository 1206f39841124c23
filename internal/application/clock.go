package application

import "time"

// Timer is a pending callback scheduled by a Clock.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

// Clock abstracts time so view timers can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc runs f in its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
