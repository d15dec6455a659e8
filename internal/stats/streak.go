package stats

import "sort"

// Streaks holds the streak pair derived from a set of active days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks computes the current and longest streaks over a set of
// active dates (YYYY-MM-DD).
//
// The current streak counts backward from the reference date inclusive: it
// walks reference, reference-1, ... while each day is present in the set.
// An inactive reference date yields 0 even when the day before is active;
// the walk does not roll past a gap at the reference date.
//
// The longest streak is the maximum run of consecutive calendar days
// anywhere in the set. Unparseable dates are ignored.
func ComputeStreaks(active map[string]struct{}, reference string) Streaks {
	return Streaks{
		Current: currentStreak(active, reference),
		Longest: longestStreak(active),
	}
}

func currentStreak(active map[string]struct{}, reference string) int {
	if _, ok := parseDay(reference); !ok {
		return 0
	}
	count := 0
	for day := reference; ; day = addDays(day, -1) {
		if _, ok := active[day]; !ok {
			break
		}
		count++
	}
	return count
}

func longestStreak(active map[string]struct{}) int {
	if len(active) == 0 {
		return 0
	}

	days := make([]int, 0, len(active))
	for day := range active {
		t, ok := parseDay(day)
		if !ok {
			continue
		}
		days = append(days, int(t.Unix()/86400))
	}
	if len(days) == 0 {
		return 0
	}
	sort.Ints(days)

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		switch days[i] - days[i-1] {
		case 0:
			// duplicate day, should not happen for a set
		case 1:
			run++
			if run > longest {
				longest = run
			}
		default:
			run = 1
		}
	}
	return longest
}
