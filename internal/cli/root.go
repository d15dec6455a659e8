package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tallyhq/tally/internal/backup"
	"github.com/tallyhq/tally/internal/logger"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/stats"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/internal/utils"
)

type Context struct {
	Store storage.Provider
}

// Today resolves the current local calendar day using the configured
// timezone. Missing or broken settings fall back to the system zone.
func (c *Context) Today() string {
	settings, err := c.Store.GetSettings()
	if err != nil {
		day, _ := utils.TodayInTimezone("")
		return day
	}
	day, err := utils.TodayFromSettings(settings)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using system zone", "timezone", settings.Timezone)
		day, _ = utils.TodayInTimezone("")
	}
	return day
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	_, err := mgr.CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FindChallenge looks a challenge up by name first, then by ID, so
// commands accept either.
func (c *Context) FindChallenge(nameOrID string) (models.Challenge, error) {
	ch, err := c.Store.GetChallengeByName(nameOrID)
	if err == nil {
		return ch, nil
	}
	ch, err = c.Store.GetChallenge(nameOrID)
	if err != nil {
		return models.Challenge{}, fmt.Errorf("challenge %q not found", nameOrID)
	}
	return ch, nil
}

// ParseSets parses a comma-separated list of positive rep counts.
func ParseSets(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sets := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid set value: %s", part)
		}
		sets = append(sets, n)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no sets given")
	}
	return sets, nil
}

// SumSets totals a parsed sets slice.
func SumSets(sets []int) int {
	total := 0
	for _, n := range sets {
		total += n
	}
	return total
}

// FormatWindow formats a challenge's effective window for display.
func FormatWindow(ch models.Challenge, today string) string {
	tf := stats.ResolveTimeframeAt(ch, today)
	return fmt.Sprintf("%s .. %s (%d days)", tf.StartDate, tf.EndDate, tf.TotalDays)
}
