package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

// ChallengeEntries pairs a challenge with its full entry history.
type ChallengeEntries struct {
	Challenge models.Challenge
	Entries   []models.Entry
}

// PersonalRecord is one display-ready record. Value is the rounded figure
// shown to the user; Detail carries the context (date, challenge name).
type PersonalRecord struct {
	Label  string `json:"label"`
	Value  int    `json:"value"`
	Detail string `json:"detail"`
}

// ScanPersonalRecords computes every personal record across all challenges.
// Each record is independent: records without qualifying data are simply
// absent and the scan never fails. Ties keep the first challenge in input
// order.
func ScanPersonalRecords(pairs []ChallengeEntries) []PersonalRecord {
	var records []PersonalRecord

	if r, ok := bestSingleDay(pairs); ok {
		records = append(records, r)
	}
	if r, ok := longestStreakRecord(pairs); ok {
		records = append(records, r)
	}
	if r, ok := highestDailyAverage(pairs); ok {
		records = append(records, r)
	}
	if r, ok := mostActiveDays(pairs); ok {
		records = append(records, r)
	}
	if r, ok := biggestSingleEntry(pairs); ok {
		records = append(records, r)
	}
	if r, ok := fastestToMilestone(pairs); ok {
		records = append(records, r)
	}
	if r, ok := maxSingleSet(pairs); ok {
		records = append(records, r)
	}
	return records
}

func bestSingleDay(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Best single day"}, false
	for _, p := range pairs {
		day := bestDay(AggregateByDate(p.Entries))
		if day == nil {
			continue
		}
		if !found || day.Count > best.Value {
			best.Value = day.Count
			best.Detail = fmt.Sprintf("%s on %s", p.Challenge.Name, day.Day)
			found = true
		}
	}
	return best, found
}

func longestStreakRecord(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Longest streak"}, false
	for _, p := range pairs {
		longest := longestStreak(ActiveDays(p.Entries))
		if longest == 0 {
			continue
		}
		if !found || longest > best.Value {
			best.Value = longest
			best.Detail = p.Challenge.Name
			found = true
		}
	}
	return best, found
}

func highestDailyAverage(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Highest daily average"}, false
	bestAvg := 0.0
	for _, p := range pairs {
		totals := AggregateByDate(p.Entries)
		if len(totals) == 0 {
			continue
		}
		total := 0
		for _, n := range totals {
			total += n
		}
		avg := dailyAverage(total, len(totals))
		if !found || avg > bestAvg {
			bestAvg = avg
			best.Value = int(math.Round(avg))
			best.Detail = p.Challenge.Name
			found = true
		}
	}
	return best, found
}

func mostActiveDays(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Most active days"}, false
	for _, p := range pairs {
		days := len(ActiveDays(p.Entries))
		// a single active day is noise for a brand-new challenge
		if days <= 1 {
			continue
		}
		if !found || days > best.Value {
			best.Value = days
			best.Detail = p.Challenge.Name
			found = true
		}
	}
	return best, found
}

func biggestSingleEntry(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Biggest single entry"}, false
	for _, p := range pairs {
		for _, e := range p.Entries {
			if e.Count <= 0 {
				continue
			}
			if !found || e.Count > best.Value {
				best.Value = e.Count
				best.Detail = fmt.Sprintf("%s on %s", p.Challenge.Name, e.Day)
				found = true
			}
		}
	}
	return best, found
}

// fastestToMilestone finds the challenge that reached its milestone in the
// fewest entries. The milestone is min(1000, target/10) and progress is
// counted in entries processed in ascending date order, not calendar days.
func fastestToMilestone(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Fastest to milestone"}, false
	for _, p := range pairs {
		milestone := p.Challenge.TargetNumber / 10
		if milestone > constants.MilestoneCap {
			milestone = constants.MilestoneCap
		}
		if milestone < 1 || len(p.Entries) == 0 {
			continue
		}

		ordered := make([]models.Entry, len(p.Entries))
		copy(ordered, p.Entries)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Day < ordered[j].Day })

		cumulative, steps := 0, 0
		for _, e := range ordered {
			cumulative += e.Count
			steps++
			if cumulative >= milestone {
				break
			}
		}
		if cumulative < milestone {
			continue
		}
		if !found || steps < best.Value {
			best.Value = steps
			best.Detail = fmt.Sprintf("%s reached %d", p.Challenge.Name, milestone)
			found = true
		}
	}
	return best, found
}

func maxSingleSet(pairs []ChallengeEntries) (PersonalRecord, bool) {
	best, found := PersonalRecord{Label: "Max reps in one set"}, false
	for _, p := range pairs {
		for _, e := range p.Entries {
			for _, reps := range e.Sets {
				if reps <= 0 {
					continue
				}
				if !found || reps > best.Value {
					best.Value = reps
					best.Detail = fmt.Sprintf("%s on %s", p.Challenge.Name, e.Day)
					found = true
				}
			}
		}
	}
	return best, found
}
