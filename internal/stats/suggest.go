package stats

import (
	"math"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

// SuggestInitialValue proposes a starting value for a new entry from the
// trailing 14 days of history (inclusive of today). Simple mode averages
// the daily counts and rounds to the nearest multiple of 5, falling back
// to plain rounding when that snaps to zero. Sets mode averages the first
// set of each entry that has sets, falling back to the plain count average
// when none do. The result is always at least 1.
func SuggestInitialValue(entries []models.Entry, countType constants.CountType, today string) int {
	cutoff := addDays(today, -constants.SuggestLookbackDays)

	var recent []models.Entry
	for _, e := range entries {
		if e.Day >= cutoff && e.Day <= today {
			recent = append(recent, e)
		}
	}
	if len(recent) == 0 {
		return 1
	}

	if countType == constants.CountTypeSets {
		if v, ok := firstSetAverage(recent); ok {
			return atLeastOne(v)
		}
		return atLeastOne(int(math.Round(countAverage(recent))))
	}

	avg := countAverage(recent)
	suggested := int(math.Round(avg/5)) * 5
	if suggested == 0 {
		suggested = int(math.Round(avg))
	}
	return atLeastOne(suggested)
}

func countAverage(entries []models.Entry) float64 {
	sum := 0
	for _, e := range entries {
		sum += e.Count
	}
	return float64(sum) / float64(len(entries))
}

func firstSetAverage(entries []models.Entry) (int, bool) {
	sum, n := 0, 0
	for _, e := range entries {
		if len(e.Sets) > 0 {
			sum += e.Sets[0]
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(float64(sum) / float64(n))), true
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
