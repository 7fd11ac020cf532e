package budget

import (
	"time"

	"github.com/ledgerly/backend/internal/types"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock is the wall clock.
var SystemClock = ClockFunc(time.Now)

// Today returns the current day in the location.
func Today(clock Clock, location *time.Location) types.Date {
	return types.DateOf(clock.Now().In(location))
}
