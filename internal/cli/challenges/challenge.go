package challenges

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/render"
	"github.com/tallyhq/tally/internal/stats"
	"github.com/tallyhq/tally/internal/validation"
)

type ChallengeCmd struct {
	Add       ChallengeAddCmd       `cmd:"" help:"Add a new challenge."`
	List      ChallengeListCmd      `cmd:"" help:"List challenges."`
	Show      ChallengeShowCmd      `cmd:"" help:"Show a challenge in detail."`
	Archive   ChallengeArchiveCmd   `cmd:"" help:"Archive a challenge."`
	Unarchive ChallengeUnarchiveCmd `cmd:"" help:"Unarchive a challenge."`
	Delete    ChallengeDeleteCmd    `cmd:"" help:"Delete a challenge and its entries (soft delete)."`
	Restore   ChallengeRestoreCmd   `cmd:"" help:"Restore a deleted challenge."`
}

type ChallengeAddCmd struct {
	Name   string `arg:"" optional:"" help:"Challenge name."`
	Target int    `help:"Target number to reach." default:"0"`
	Start  string `help:"Start date (YYYY-MM-DD). Requires --end."`
	End    string `help:"End date (YYYY-MM-DD). Requires --start."`
	Month  bool   `help:"Track over the current month instead of the year."`
	Year   int    `help:"Calendar year to track over (default: current year)."`
	Sets   bool   `help:"Log entries as sets of reps."`
	Unit   string `help:"Unit label, e.g. 'pushups' or 'pages'."`
	Color  string `help:"Display color (HEX, e.g. #FF5722)."`
	Icon   string `help:"Display icon (emoji)."`
}

func (c *ChallengeAddCmd) Run(ctx *cli.Context) error {
	// Interactive form when the essentials are missing.
	if c.Name == "" || c.Target < 1 {
		if err := c.promptMissing(); err != nil {
			return err
		}
	}

	if _, err := ctx.Store.GetChallengeByName(c.Name); err == nil {
		return fmt.Errorf("challenge with name %q already exists", c.Name)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	countType := settings.DefaultCountType
	if c.Sets {
		countType = constants.CountTypeSets
	}

	now := time.Now()
	ch := models.Challenge{
		ID:           uuid.New().String(),
		Name:         c.Name,
		TargetNumber: c.Target,
		StartDate:    c.Start,
		EndDate:      c.End,
		CountType:    countType,
		UnitLabel:    c.Unit,
		Color:        c.Color,
		Icon:         c.Icon,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch {
	case c.Start != "":
		ch.Timeframe = constants.TimeframeCustom
	case c.Month:
		ch.Timeframe = constants.TimeframeMonth
	default:
		ch.Timeframe = constants.TimeframeYear
		ch.Year = c.Year
		if ch.Year == 0 {
			today := ctx.Today()
			if y, err := strconv.Atoi(today[:4]); err == nil {
				ch.Year = y
			}
		}
	}

	if err := validation.ValidateChallenge(ch); err != nil {
		return err
	}

	if err := ctx.Store.AddChallenge(ch); err != nil {
		return err
	}

	fmt.Printf("Added challenge: %s (target %d, %s)\n", ch.Name, ch.TargetNumber, cli.FormatWindow(ch, ctx.Today()))
	return nil
}

func (c *ChallengeAddCmd) promptMissing() error {
	target := ""
	if c.Target > 0 {
		target = strconv.Itoa(c.Target)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Target").
				Description("Total number to reach within the window").
				Value(&target).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if n < 1 {
						return fmt.Errorf("target must be at least 1")
					}
					return nil
				}),
			huh.NewInput().
				Title("Unit label").
				Description("Optional, e.g. 'pushups' or 'pages'").
				Value(&c.Unit),
			huh.NewConfirm().
				Title("Log as sets of reps?").
				Value(&c.Sets),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := strconv.Atoi(strings.TrimSpace(target))
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}
	c.Target = n
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

type ChallengeListCmd struct {
	Archived bool `help:"Include archived challenges."`
	Deleted  bool `help:"Include deleted challenges."`
}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	challenges, err := ctx.Store.GetAllChallenges(c.Archived, c.Deleted)
	if err != nil {
		return err
	}

	if len(challenges) == 0 {
		fmt.Println("No challenges found. Add one with 'tally challenge add'.")
		return nil
	}

	today := ctx.Today()
	for _, ch := range challenges {
		entries, err := ctx.Store.GetEntriesForChallenge(ch.ID)
		if err != nil {
			return err
		}
		s := stats.ComputeStats(ch, entries, today)
		fmt.Println(render.ChallengeLine(ch, s))
	}

	return nil
}

type ChallengeShowCmd struct {
	Name string `arg:"" help:"Challenge name or ID."`
}

func (c *ChallengeShowCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.FindChallenge(c.Name)
	if err != nil {
		return err
	}

	entries, err := ctx.Store.GetEntriesForChallenge(ch.ID)
	if err != nil {
		return err
	}

	today := ctx.Today()
	s := stats.ComputeStats(ch, entries, today)

	fmt.Println(render.Stats(ch, s))
	fmt.Printf("Window: %s\n", cli.FormatWindow(ch, today))
	fmt.Printf("Entries: %d\n", len(entries))
	return nil
}

type ChallengeArchiveCmd struct {
	Name string `arg:"" help:"Challenge name or ID."`
}

func (c *ChallengeArchiveCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.FindChallenge(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveChallenge(ch.ID); err != nil {
		return err
	}
	fmt.Printf("Archived challenge: %s\n", ch.Name)
	return nil
}

type ChallengeUnarchiveCmd struct {
	Name string `arg:"" help:"Challenge name or ID."`
}

func (c *ChallengeUnarchiveCmd) Run(ctx *cli.Context) error {
	challenges, err := ctx.Store.GetAllChallenges(true, false)
	if err != nil {
		return err
	}
	for _, ch := range challenges {
		if ch.Name == c.Name || ch.ID == c.Name {
			if err := ctx.Store.UnarchiveChallenge(ch.ID); err != nil {
				return err
			}
			fmt.Printf("Unarchived challenge: %s\n", ch.Name)
			return nil
		}
	}
	return fmt.Errorf("archived challenge %q not found", c.Name)
}

type ChallengeDeleteCmd struct {
	Name string `arg:"" help:"Challenge name or ID."`
}

func (c *ChallengeDeleteCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.FindChallenge(c.Name)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.DeleteChallenge(ch.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted challenge: %s (entries go with it; 'tally challenge restore' undoes this)\n", ch.Name)
	return nil
}

type ChallengeRestoreCmd struct {
	Name string `arg:"" help:"Challenge name or ID."`
}

func (c *ChallengeRestoreCmd) Run(ctx *cli.Context) error {
	challenges, err := ctx.Store.GetAllChallenges(true, true)
	if err != nil {
		return err
	}
	for _, ch := range challenges {
		if (ch.Name == c.Name || ch.ID == c.Name) && ch.DeletedAt != nil {
			if err := ctx.Store.RestoreChallenge(ch.ID); err != nil {
				return err
			}
			fmt.Printf("Restored challenge: %s\n", ch.Name)
			return nil
		}
	}
	return fmt.Errorf("deleted challenge %q not found", c.Name)
}
