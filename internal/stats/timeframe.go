// Package stats is the progress-statistics engine: pure, synchronous,
// deterministic transforms from a challenge definition and its entries to
// derived value objects (totals, pace, streaks, heatmaps, records).
//
// Nothing in this package performs I/O or mutates its inputs; every
// function is safe to call from any goroutine and recomputing with
// identical inputs yields identical outputs.
package stats

import (
	"time"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

// Timeframe is the resolved inclusive date window of a challenge.
type Timeframe struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays int    `json:"total_days"`
}

// ResolveTimeframe resolves the effective window for a challenge using the
// system clock for the month/year fallbacks. See ResolveTimeframeAt.
func ResolveTimeframe(ch models.Challenge) Timeframe {
	return ResolveTimeframeAt(ch, time.Now().Format(dateFormat))
}

// ResolveTimeframeAt resolves the effective window for a challenge relative
// to the given date (YYYY-MM-DD). Explicit start/end dates win over the
// timeframe unit; unit "year" maps to Jan 1–Dec 31 of the challenge's year;
// unit "month" maps to the current calendar month of the reference date
// (not the challenge's creation month). With no signals at all the window
// is the reference date's year. It never fails: malformed inputs fall
// through to the year fallback.
func ResolveTimeframeAt(ch models.Challenge, today string) Timeframe {
	if ch.StartDate != "" && ch.EndDate != "" {
		if _, ok := parseDay(ch.StartDate); ok {
			if _, ok := parseDay(ch.EndDate); ok {
				return window(ch.StartDate, ch.EndDate)
			}
		}
	}

	now, ok := parseDay(today)
	if !ok {
		now = time.Now()
	}

	switch ch.Timeframe {
	case constants.TimeframeYear:
		year := ch.Year
		if year == 0 {
			year = now.Year()
		}
		return yearWindow(year)
	case constants.TimeframeMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return window(formatDay(first), formatDay(last))
	}

	if ch.Year != 0 {
		return yearWindow(ch.Year)
	}
	return yearWindow(now.Year())
}

func yearWindow(year int) Timeframe {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return window(formatDay(start), formatDay(end))
}

func window(start, end string) Timeframe {
	total := daysBetween(start, end) + 1
	if total < 1 {
		total = 1
	}
	return Timeframe{StartDate: start, EndDate: end, TotalDays: total}
}

// Contains reports whether the given date falls inside the window.
// Comparison is lexicographic, which is correct for YYYY-MM-DD strings.
func (tf Timeframe) Contains(day string) bool {
	return day >= tf.StartDate && day <= tf.EndDate
}
