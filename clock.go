package gbce

import "time"

// Clock tells the market what time it is. Trades are timestamped with it and
// the VWSP window is measured from it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock that is always at t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
