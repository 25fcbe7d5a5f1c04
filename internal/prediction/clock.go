package prediction

import "time"

// Clock supplies the current instant. Owners inject a fixed clock in tests
// so lifecycle checks do not depend on real elapsed time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
