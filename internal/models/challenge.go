package models

import (
	"time"

	"github.com/tallyhq/tally/internal/constants"
)

// Challenge is a numeric goal tracked over a timeframe.
//
// The window is either explicit (StartDate/EndDate, both YYYY-MM-DD,
// inclusive) or derived from TimeframeUnit + Year. Display fields (Color,
// Icon) are carried for rendering only and never affect statistics.
type Challenge struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	TargetNumber int                     `json:"target_number"`
	StartDate    string                  `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      string                  `json:"end_date,omitempty"`   // YYYY-MM-DD
	Timeframe    constants.TimeframeUnit `json:"timeframe,omitempty"`
	Year         int                     `json:"year,omitempty"`
	CountType    constants.CountType     `json:"count_type,omitempty"`
	UnitLabel    string                  `json:"unit_label,omitempty"`
	Color        string                  `json:"color,omitempty"` // HEX color, e.g. "#FF5722"
	Icon         string                  `json:"icon,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
	ArchivedAt   *time.Time              `json:"archived_at,omitempty"`
	DeletedAt    *time.Time              `json:"deleted_at,omitempty"`
}

// IsSets returns true if the challenge logs entries as sets of reps
func (c *Challenge) IsSets() bool {
	return c.CountType == constants.CountTypeSets
}
