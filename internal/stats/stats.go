package stats

import (
	"sort"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

// DayCount is a date paired with its aggregated count.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ChallengeStats is the full derived snapshot for one challenge. It is
// recomputed on demand and never persisted as a source of truth.
type ChallengeStats struct {
	Total          int                  `json:"total"`
	Remaining      int                  `json:"remaining"`
	DaysElapsed    int                  `json:"days_elapsed"`
	DaysLeft       int                  `json:"days_left"`
	PerDayRequired float64              `json:"per_day_required"`
	CurrentPerDay  float64              `json:"current_per_day"`
	ExpectedTotal  float64              `json:"expected_total"`
	PaceOffset     float64              `json:"pace_offset"`
	PaceStatus     constants.PaceStatus `json:"pace_status"`
	StreakCurrent  int                  `json:"streak_current"`
	StreakBest     int                  `json:"streak_best"`
	BestDay        *DayCount            `json:"best_day,omitempty"`
	DailyAverage   float64              `json:"daily_average"`
}

// ComputeStats derives the full statistics snapshot for a challenge from
// its entries as of the given local calendar day (YYYY-MM-DD). Empty
// history degrades to zeros and a nil best day; it never fails.
func ComputeStats(ch models.Challenge, entries []models.Entry, today string) ChallengeStats {
	tf := ResolveTimeframeAt(ch, today)
	totals := AggregateByDate(entries)

	total := 0
	for _, n := range totals {
		total += n
	}

	pace := ComputePace(ch.TargetNumber, tf, total, today)
	streaks := ComputeStreaks(ActiveDays(entries), today)

	s := ChallengeStats{
		Total:          total,
		Remaining:      pace.Remaining,
		DaysElapsed:    pace.DaysElapsed,
		DaysLeft:       pace.DaysLeft,
		PerDayRequired: pace.PerDayRequired,
		CurrentPerDay:  float64(total) / float64(pace.DaysElapsed),
		ExpectedTotal:  pace.ExpectedTotal,
		PaceOffset:     pace.PaceOffset,
		PaceStatus:     pace.Status,
		StreakCurrent:  streaks.Current,
		StreakBest:     streaks.Longest,
		BestDay:        bestDay(totals),
		DailyAverage:   dailyAverage(total, len(totals)),
	}
	return s
}

// bestDay returns the date with the highest aggregated count, or nil when
// there is no activity. Ties resolve to the earliest date so the result is
// stable regardless of map iteration order.
func bestDay(totals map[string]int) *DayCount {
	if len(totals) == 0 {
		return nil
	}
	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	best := DayCount{Day: days[0], Count: totals[days[0]]}
	for _, day := range days[1:] {
		if totals[day] > best.Count {
			best = DayCount{Day: day, Count: totals[day]}
		}
	}
	return &best
}

func dailyAverage(total, activeDays int) float64 {
	if activeDays == 0 {
		return 0
	}
	return float64(total) / float64(activeDays)
}
