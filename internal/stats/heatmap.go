package stats

import "github.com/tallyhq/tally/internal/models"

// HeatmapDay is one calendar cell of the intensity grid. Padding cells
// outside the window carry an empty date, zero count, and level 0.
type HeatmapDay struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	Level int    `json:"level"` // 0..4
}

// WeekRow is a Sunday-first calendar week of cells.
type WeekRow [7]HeatmapDay

// BuildHeatmap produces the calendar-aligned intensity grid for the given
// window. Rows are whole weeks starting on Sunday; leading and trailing
// cells outside the window are padding. Intensity buckets each day's count
// against the maximum daily count inside the window: level 0 for zero
// activity, then quartiles 1..4 of the max. The result is a finite slice,
// fully rebuilt on every call, so callers may memoize it freely.
func BuildHeatmap(entries []models.Entry, window Timeframe) []WeekRow {
	start, okS := parseDay(window.StartDate)
	end, okE := parseDay(window.EndDate)
	if !okS || !okE || end.Before(start) {
		return nil
	}

	totals := AggregateByDate(entries)

	maxCount := 0
	for day, n := range totals {
		if window.Contains(day) && n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Back up to the Sunday on or before the window start.
	cursor := start.AddDate(0, 0, -int(start.Weekday()))

	var rows []WeekRow
	for !cursor.After(end) {
		var row WeekRow
		for i := 0; i < 7; i++ {
			day := formatDay(cursor)
			if window.Contains(day) {
				count := totals[day]
				row[i] = HeatmapDay{Day: day, Count: count, Level: intensityLevel(count, maxCount)}
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
		rows = append(rows, row)
	}
	return rows
}

func intensityLevel(count, maxCount int) int {
	if count <= 0 {
		return 0
	}
	ratio := float64(count) / float64(maxCount)
	switch {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.5:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return 4
	}
}
