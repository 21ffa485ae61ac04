package engine

import (
	"time"

	"github.com/tartampluch/go-amlich/internal/lunar"
)

// Clock decides what "now" means for a sync. Tests inject a fixed reading.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today is the civil date of c in UTC+7, whatever the host zone is.
func Today(c Clock) lunar.SolarDate {
	return lunar.SolarDateFromTime(c.Now())
}
