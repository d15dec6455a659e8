package models

import "github.com/tallyhq/tally/internal/constants"

// Settings holds application-wide preferences
type Settings struct {
	ID int `json:"id"` // Always 1

	// Timezone is an IANA zone name used to resolve "today" for streaks,
	// pace, and entry defaults. "Local" or empty means the system zone.
	Timezone string `json:"timezone"`

	// DefaultCountType is applied to new challenges when none is given
	DefaultCountType constants.CountType `json:"default_count_type"`
}
