package neo

import "time"

// APIDateLayout is the fixed-width calendar date used by feed keys and the
// start_date/end_date query parameters.
const APIDateLayout = "2006-01-02"

// APIFormat formats t as a calendar date in t's own location.
func APIFormat(t time.Time) string {
	return t.Format(APIDateLayout)
}

// ParseAPIDate parses a feed key as midnight in loc.
func ParseAPIDate(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(APIDateLayout, key, loc)
}

// DayBefore returns noon of the previous calendar day. Anchoring on noon
// keeps DST transitions from skipping or repeating a date.
func DayBefore(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, t.Location())
}
