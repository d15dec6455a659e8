package settings

import (
	"fmt"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone         *string `help:"IANA timezone used to resolve 'today', e.g. 'Europe/Berlin' or 'Local'."`
	DefaultCountType *string `help:"Default count type for new challenges: 'simple' or 'sets'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:           %s\n", settings.Timezone)
		fmt.Printf("  Default Count Type: %s\n", settings.DefaultCountType)
		fmt.Printf("  Today resolves to:  %s\n", ctx.Today())
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("unknown timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultCountType != nil {
		ct := constants.CountType(*c.DefaultCountType)
		if ct != constants.CountTypeSimple && ct != constants.CountTypeSets {
			return fmt.Errorf("count type must be %q or %q", constants.CountTypeSimple, constants.CountTypeSets)
		}
		settings.DefaultCountType = ct
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
