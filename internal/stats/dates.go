package stats

import "time"

// All date handling in this package is UTC-naive calendar arithmetic over
// YYYY-MM-DD strings. Callers are responsible for producing strings in the
// user's local calendar day; nothing here consults the wall clock except
// the convenience wrappers that say so.

const dateFormat = "2006-01-02"

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatDay(t time.Time) string {
	return t.Format(dateFormat)
}

// addDays shifts a date string by n calendar days. Invalid input is
// returned unchanged so that downstream comparisons simply never match.
func addDays(day string, n int) string {
	t, ok := parseDay(day)
	if !ok {
		return day
	}
	return formatDay(t.AddDate(0, 0, n))
}

// daysBetween returns the signed number of calendar days from a to b.
// Zero when either date is malformed.
func daysBetween(a, b string) int {
	ta, okA := parseDay(a)
	tb, okB := parseDay(b)
	if !okA || !okB {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}
