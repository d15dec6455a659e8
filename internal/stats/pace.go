package stats

import "github.com/tallyhq/tally/internal/constants"

// Pace compares actual cumulative progress to the idealized linear
// target-to-date.
type Pace struct {
	Remaining      int                  `json:"remaining"`
	DaysElapsed    int                  `json:"days_elapsed"`
	DaysLeft       int                  `json:"days_left"`
	PerDayRequired float64              `json:"per_day_required"`
	ExpectedTotal  float64              `json:"expected_total"`
	PaceOffset     float64              `json:"pace_offset"`
	Status         constants.PaceStatus `json:"status"`
}

// ComputePace derives remaining amount, elapsed/left day counts, the
// per-day rate required to finish, and the three-way pace classification.
//
// daysElapsed counts start..today inclusive, clamped to [1, totalDays];
// daysLeft counts the days after today up to and including the end date,
// floored at zero. On the final day (or past due) perDayRequired is the
// whole remaining amount. The behind threshold is deliberately asymmetric:
// a shortfall of one unit or less still counts as on-pace so rounding
// noise cannot flap the classification.
func ComputePace(target int, tf Timeframe, total int, today string) Pace {
	if target < 1 {
		target = 1
	}
	totalDays := tf.TotalDays
	if totalDays < 1 {
		totalDays = 1
	}

	remaining := target - total
	if remaining < 0 {
		remaining = 0
	}

	daysElapsed := daysBetween(tf.StartDate, today) + 1
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	if daysElapsed > totalDays {
		daysElapsed = totalDays
	}

	daysLeft := daysBetween(today, tf.EndDate)
	if daysLeft < 0 {
		daysLeft = 0
	}

	perDayRequired := float64(remaining)
	if daysLeft > 0 {
		perDayRequired = float64(remaining) / float64(daysLeft)
	}

	expected := float64(target) * float64(daysElapsed) / float64(totalDays)
	offset := float64(total) - expected

	status := constants.PaceOnPace
	switch {
	case offset > 0:
		status = constants.PaceAhead
	case offset < -1:
		status = constants.PaceBehind
	}

	return Pace{
		Remaining:      remaining,
		DaysElapsed:    daysElapsed,
		DaysLeft:       daysLeft,
		PerDayRequired: perDayRequired,
		ExpectedTotal:  expected,
		PaceOffset:     offset,
		Status:         status,
	}
}
