package spacedrep

import "time"

// Clock returns the current time. It is the only external input the
// scheduler depends on.
type Clock func() time.Time

// SystemClock returns the wall-clock time in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
