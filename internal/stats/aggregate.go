package stats

import "github.com/tallyhq/tally/internal/models"

// AggregateByDate sums entry counts per date. Entries sharing a date string
// accumulate; malformed dates pass through as opaque keys. The sum is
// commutative, so input order never affects the result.
func AggregateByDate(entries []models.Entry) map[string]int {
	totals := make(map[string]int, len(entries))
	for _, e := range entries {
		totals[e.Day] += e.Count
	}
	return totals
}

// ActiveDays returns the set of distinct dates with at least one entry.
func ActiveDays(entries []models.Entry) map[string]struct{} {
	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		days[e.Day] = struct{}{}
	}
	return days
}
