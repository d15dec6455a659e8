package stats

import (
	"testing"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

func TestResolveTimeframeAt(t *testing.T) {
	tests := []struct {
		name      string
		challenge models.Challenge
		today     string
		want      Timeframe
	}{
		{
			name: "explicit dates win over unit",
			challenge: models.Challenge{
				StartDate: "2026-03-01",
				EndDate:   "2026-03-31",
				Timeframe: constants.TimeframeYear,
				Year:      2026,
			},
			today: "2026-06-15",
			want:  Timeframe{StartDate: "2026-03-01", EndDate: "2026-03-31", TotalDays: 31},
		},
		{
			name:      "year unit expands to full year",
			challenge: models.Challenge{Timeframe: constants.TimeframeYear, Year: 2026},
			today:     "2026-06-15",
			want:      Timeframe{StartDate: "2026-01-01", EndDate: "2026-12-31", TotalDays: 365},
		},
		{
			name:      "year unit without year uses reference year",
			challenge: models.Challenge{Timeframe: constants.TimeframeYear},
			today:     "2024-06-15",
			want:      Timeframe{StartDate: "2024-01-01", EndDate: "2024-12-31", TotalDays: 366},
		},
		{
			name:      "month unit uses reference month, not creation month",
			challenge: models.Challenge{Timeframe: constants.TimeframeMonth},
			today:     "2026-02-10",
			want:      Timeframe{StartDate: "2026-02-01", EndDate: "2026-02-28", TotalDays: 28},
		},
		{
			name:      "no signals falls back to reference year",
			challenge: models.Challenge{},
			today:     "2026-06-15",
			want:      Timeframe{StartDate: "2026-01-01", EndDate: "2026-12-31", TotalDays: 365},
		},
		{
			name:      "bare year without unit still resolves",
			challenge: models.Challenge{Year: 2025},
			today:     "2026-06-15",
			want:      Timeframe{StartDate: "2025-01-01", EndDate: "2025-12-31", TotalDays: 365},
		},
		{
			name:      "malformed explicit dates fall through to year",
			challenge: models.Challenge{StartDate: "not-a-date", EndDate: "2026-12-31"},
			today:     "2026-06-15",
			want:      Timeframe{StartDate: "2026-01-01", EndDate: "2026-12-31", TotalDays: 365},
		},
		{
			name:      "single-day window is one day",
			challenge: models.Challenge{StartDate: "2026-05-01", EndDate: "2026-05-01"},
			today:     "2026-05-01",
			want:      Timeframe{StartDate: "2026-05-01", EndDate: "2026-05-01", TotalDays: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimeframeAt(tt.challenge, tt.today)
			if got != tt.want {
				t.Errorf("ResolveTimeframeAt() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTimeframeContains(t *testing.T) {
	tf := Timeframe{StartDate: "2026-01-01", EndDate: "2026-01-31", TotalDays: 31}

	if !tf.Contains("2026-01-01") || !tf.Contains("2026-01-31") {
		t.Error("Contains() should be inclusive on both ends")
	}
	if tf.Contains("2025-12-31") || tf.Contains("2026-02-01") {
		t.Error("Contains() should reject dates outside the window")
	}
	if tf.Contains("") {
		t.Error("Contains() should reject empty dates")
	}
}
