package services

import "time"

// dayFormat is the canonical day-key layout used by the checkin registry.
const dayFormat = "2006-01-02"

// Clock supplies the current time. The day boundary is always taken in the
// configured location rather than host-local time, so all deployments agree
// on what "today" means.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// DayKey reduces a point in time to its calendar date in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayFormat)
}
