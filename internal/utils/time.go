package utils

import (
	"fmt"
	"time"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

// "Today" must always be the user's local calendar day, never a UTC-shifted
// one: formatting through UTC shifts the date near midnight in non-UTC
// zones, which skews streaks and pace. Every date string handed to the
// stats engine goes through these helpers.

// LoadLocation loads a timezone location from an IANA timezone name.
// "Local" or empty means the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// TodayInTimezone returns today's date string (YYYY-MM-DD) in the specified
// timezone.
func TodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// TodayFromSettings returns today's date string using the settings timezone.
func TodayFromSettings(settings models.Settings) (string, error) {
	return TodayInTimezone(settings.Timezone)
}

// ValidateDate checks that a string is a well-formed YYYY-MM-DD date.
func ValidateDate(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
