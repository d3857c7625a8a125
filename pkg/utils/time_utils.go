package utils

import "time"

const DateLayout = "2006-01-02"

// LoadLocation falls back to a fixed CET zone when tzdata is missing.
func LoadLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("CET", 3600)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewClock returns a clock reading wall time in the business time zone.
func NewClock(loc *time.Location) Clock {
	return systemClock{loc: loc}
}

func (s systemClock) Now() time.Time { return time.Now().In(s.loc) }

// CivilDate drops the time of day, keeping the calendar date t has in its own
// location. The result is midnight UTC so dates compare with Before/After.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
