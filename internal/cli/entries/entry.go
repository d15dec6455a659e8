package entries

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/stats"
	"github.com/tallyhq/tally/internal/utils"
	"github.com/tallyhq/tally/internal/validation"
)

type LogCmd struct {
	Challenge string `arg:"" help:"Challenge name or ID."`
	Count     int    `arg:"" optional:"" help:"Amount to log (default: suggested from recent history)."`
	Sets      string `help:"Comma-separated reps per set, e.g. '20,15,10'. Overrides count."`
	Date      string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Note      string `help:"Optional note for this entry." default:""`
	Feeling   string `help:"Optional feeling tag, e.g. 'strong' or 'tired'." default:""`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.FindChallenge(c.Challenge)
	if err != nil {
		return err
	}
	if ch.ArchivedAt != nil {
		return fmt.Errorf("challenge %q is archived; unarchive it to log entries", ch.Name)
	}

	day := c.Date
	if day == "" {
		day = ctx.Today()
	} else if !utils.ValidateDate(day) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	count := c.Count
	var sets []int

	if strings.TrimSpace(c.Sets) != "" {
		sets, err = cli.ParseSets(c.Sets)
		if err != nil {
			return err
		}
		count = cli.SumSets(sets)
	} else if count == 0 {
		history, err := ctx.Store.GetEntriesForChallenge(ch.ID)
		if err != nil {
			return err
		}
		count = stats.SuggestInitialValue(history, ch.CountType, day)
		fmt.Printf("No count given, using suggested value: %d\n", count)
	}

	now := time.Now()
	entry := models.Entry{
		ID:          uuid.New().String(),
		ChallengeID: ch.ID,
		Day:         day,
		Count:       count,
		Sets:        sets,
		Note:        c.Note,
		Feeling:     c.Feeling,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := validation.ValidateEntry(entry); err != nil {
		return err
	}

	if err := ctx.Store.AddEntry(entry); err != nil {
		return err
	}

	unit := ch.UnitLabel
	if unit == "" {
		unit = "units"
	}
	fmt.Printf("Logged %d %s for %s on %s\n", count, unit, ch.Name, day)
	return nil
}

type EntryCmd struct {
	List   EntryListCmd   `cmd:"" help:"List entries for a challenge."`
	Delete EntryDeleteCmd `cmd:"" help:"Delete an entry (soft delete)."`
}

type EntryListCmd struct {
	Challenge string `arg:"" optional:"" help:"Challenge name or ID (default: all challenges)."`
	Date      string `help:"Only show entries for this date (YYYY-MM-DD)."`
}

func (c *EntryListCmd) Run(ctx *cli.Context) error {
	var entries []models.Entry
	var err error
	challengeNames := map[string]string{}

	switch {
	case c.Date != "":
		if !utils.ValidateDate(c.Date) {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
		entries, err = ctx.Store.GetEntriesForDay(c.Date)
	case c.Challenge != "":
		var ch models.Challenge
		ch, err = ctx.FindChallenge(c.Challenge)
		if err != nil {
			return err
		}
		challengeNames[ch.ID] = ch.Name
		entries, err = ctx.Store.GetEntriesForChallenge(ch.ID)
	default:
		entries, err = ctx.Store.GetAllEntries()
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	if len(challengeNames) == 0 {
		challenges, err := ctx.Store.GetAllChallenges(true, true)
		if err != nil {
			return err
		}
		for _, ch := range challenges {
			challengeNames[ch.ID] = ch.Name
		}
	}

	for _, e := range entries {
		name := challengeNames[e.ChallengeID]
		if name == "" {
			name = e.ChallengeID
		}
		line := fmt.Sprintf("%s  %-24s %6d", e.Day, name, e.Count)
		if len(e.Sets) > 0 {
			reps := make([]string, len(e.Sets))
			for i, n := range e.Sets {
				reps[i] = fmt.Sprintf("%d", n)
			}
			line += fmt.Sprintf("  sets: %s", strings.Join(reps, ","))
		}
		if e.Note != "" {
			line += fmt.Sprintf("  (%s)", e.Note)
		}
		fmt.Printf("%s  [%s]\n", line, e.ID)
	}

	return nil
}

type EntryDeleteCmd struct {
	ID string `arg:"" help:"Entry ID (from 'tally entries list')."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetEntry(c.ID)
	if err != nil {
		return fmt.Errorf("entry %q not found", c.ID)
	}

	if err := ctx.Store.DeleteEntry(entry.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted entry: %d on %s\n", entry.Count, entry.Day)
	return nil
}
