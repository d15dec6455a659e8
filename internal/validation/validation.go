package validation

import (
	"fmt"
	"strings"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/utils"
)

// Write-time validation for challenges and entries. The stats engine is a
// total function and never rejects input, so data integrity is enforced
// here, before anything reaches storage.

// ValidateChallenge checks a challenge before it is saved.
func ValidateChallenge(ch models.Challenge) error {
	if strings.TrimSpace(ch.Name) == "" {
		return fmt.Errorf("challenge name cannot be empty")
	}
	if ch.TargetNumber < 1 {
		return fmt.Errorf("target must be at least 1, got %d", ch.TargetNumber)
	}

	if (ch.StartDate == "") != (ch.EndDate == "") {
		return fmt.Errorf("start and end dates must be set together")
	}
	if ch.StartDate != "" {
		if !utils.ValidateDate(ch.StartDate) {
			return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", ch.StartDate)
		}
		if !utils.ValidateDate(ch.EndDate) {
			return fmt.Errorf("invalid end date %q (expected YYYY-MM-DD)", ch.EndDate)
		}
		if ch.StartDate > ch.EndDate {
			return fmt.Errorf("start date %s is after end date %s", ch.StartDate, ch.EndDate)
		}
	}

	switch ch.Timeframe {
	case "", constants.TimeframeYear, constants.TimeframeMonth, constants.TimeframeCustom:
	default:
		return fmt.Errorf("unknown timeframe unit %q", ch.Timeframe)
	}

	switch ch.CountType {
	case "", constants.CountTypeSimple, constants.CountTypeSets:
	default:
		return fmt.Errorf("unknown count type %q", ch.CountType)
	}

	return nil
}

// ValidateEntry checks an entry before it is saved. Sets, when present,
// must sum to the entry count so that set statistics stay consistent with
// totals.
func ValidateEntry(e models.Entry) error {
	if e.ChallengeID == "" {
		return fmt.Errorf("entry must reference a challenge")
	}
	if !utils.ValidateDate(e.Day) {
		return fmt.Errorf("invalid entry date %q (expected YYYY-MM-DD)", e.Day)
	}
	if e.Count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", e.Count)
	}

	if len(e.Sets) > 0 {
		sum := 0
		for i, reps := range e.Sets {
			if reps < 0 {
				return fmt.Errorf("set %d has negative reps %d", i+1, reps)
			}
			sum += reps
		}
		if sum != e.Count {
			return fmt.Errorf("sets sum to %d but count is %d", sum, e.Count)
		}
	}

	return nil
}
