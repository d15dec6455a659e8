package stats

import (
	"testing"

	"github.com/tallyhq/tally/internal/models"
)

func TestBuildHeatmapAlignment(t *testing.T) {
	// Jan 2026 starts on a Thursday and ends on a Saturday.
	window := Timeframe{StartDate: "2026-01-01", EndDate: "2026-01-31", TotalDays: 31}
	rows := BuildHeatmap(nil, window)

	if len(rows) != 5 {
		t.Fatalf("got %d week rows, want 5", len(rows))
	}

	// Leading padding: Sun..Wed of the first week are outside the window.
	for i := 0; i < 4; i++ {
		if rows[0][i].Day != "" || rows[0][i].Count != 0 || rows[0][i].Level != 0 {
			t.Errorf("leading cell %d is not padding: %+v", i, rows[0][i])
		}
	}
	if rows[0][4].Day != "2026-01-01" {
		t.Errorf("first real cell = %q, want 2026-01-01", rows[0][4].Day)
	}
	last := rows[len(rows)-1]
	if last[6].Day != "2026-01-31" {
		t.Errorf("last real cell = %q, want 2026-01-31", last[6].Day)
	}

	// Every real cell in an empty history is level 0.
	for _, row := range rows {
		for _, cell := range row {
			if cell.Level != 0 || cell.Count != 0 {
				t.Errorf("cell %+v should be empty", cell)
			}
		}
	}
}

func TestBuildHeatmapLevels(t *testing.T) {
	window := Timeframe{StartDate: "2026-01-01", EndDate: "2026-01-31", TotalDays: 31}
	entries := []models.Entry{
		{Day: "2026-01-05", Count: 40}, // max
		{Day: "2026-01-06", Count: 5},  // ratio 0.125 -> level 1
		{Day: "2026-01-07", Count: 15}, // ratio 0.375 -> level 2
		{Day: "2026-01-08", Count: 25}, // ratio 0.625 -> level 3
		{Day: "2026-01-09", Count: 35}, // ratio 0.875 -> level 4
	}
	rows := BuildHeatmap(entries, window)

	levels := make(map[string]int)
	for _, row := range rows {
		for _, cell := range row {
			if cell.Day != "" {
				levels[cell.Day] = cell.Level
			}
		}
	}

	want := map[string]int{
		"2026-01-05": 4,
		"2026-01-06": 1,
		"2026-01-07": 2,
		"2026-01-08": 3,
		"2026-01-09": 4,
		"2026-01-10": 0,
	}
	for day, level := range want {
		if levels[day] != level {
			t.Errorf("level[%s] = %d, want %d", day, levels[day], level)
		}
	}
}

// Summing real cells reproduces the in-window aggregate exactly.
func TestBuildHeatmapRoundTrip(t *testing.T) {
	window := Timeframe{StartDate: "2026-01-01", EndDate: "2026-02-28", TotalDays: 59}
	entries := []models.Entry{
		{Day: "2026-01-01", Count: 3},
		{Day: "2026-01-01", Count: 4},
		{Day: "2026-01-15", Count: 9},
		{Day: "2026-02-28", Count: 2},
		{Day: "2025-12-31", Count: 100}, // outside window
		{Day: "2026-03-01", Count: 100}, // outside window
	}

	rows := BuildHeatmap(entries, window)

	cellSum := 0
	for _, row := range rows {
		for _, cell := range row {
			cellSum += cell.Count
		}
	}

	aggSum := 0
	for day, n := range AggregateByDate(entries) {
		if window.Contains(day) {
			aggSum += n
		}
	}

	if cellSum != aggSum {
		t.Errorf("cell sum %d != in-window aggregate %d", cellSum, aggSum)
	}
	if cellSum != 18 {
		t.Errorf("cell sum = %d, want 18", cellSum)
	}
}

func TestBuildHeatmapDegenerateWindows(t *testing.T) {
	if rows := BuildHeatmap(nil, Timeframe{StartDate: "bad", EndDate: "2026-01-31"}); rows != nil {
		t.Errorf("malformed window should produce nil, got %d rows", len(rows))
	}
	if rows := BuildHeatmap(nil, Timeframe{StartDate: "2026-02-01", EndDate: "2026-01-01"}); rows != nil {
		t.Errorf("inverted window should produce nil, got %d rows", len(rows))
	}

	// Single-day window still yields one full 7-cell row.
	rows := BuildHeatmap(
		[]models.Entry{{Day: "2026-01-07", Count: 1}},
		Timeframe{StartDate: "2026-01-07", EndDate: "2026-01-07", TotalDays: 1},
	)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	real := 0
	for _, cell := range rows[0] {
		if cell.Day != "" {
			real++
			if cell.Level != 4 {
				t.Errorf("sole active cell level = %d, want 4", cell.Level)
			}
		}
	}
	if real != 1 {
		t.Errorf("got %d real cells, want 1", real)
	}
}
