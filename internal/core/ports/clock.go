package ports

import (
	"time"
)

// Clock supplies the current time, so quota periods and timestamps are
// injectable in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
