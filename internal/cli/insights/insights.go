package insights

import (
	"fmt"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/render"
	"github.com/tallyhq/tally/internal/stats"
)

type StatsCmd struct {
	Challenge string `arg:"" help:"Challenge name or ID."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.FindChallenge(c.Challenge)
	if err != nil {
		return err
	}

	entries, err := ctx.Store.GetEntriesForChallenge(ch.ID)
	if err != nil {
		return err
	}

	s := stats.ComputeStats(ch, entries, ctx.Today())
	fmt.Println(render.Stats(ch, s))
	return nil
}

type HeatmapCmd struct {
	Challenge string `arg:"" help:"Challenge name or ID."`
}

func (c *HeatmapCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.FindChallenge(c.Challenge)
	if err != nil {
		return err
	}

	entries, err := ctx.Store.GetEntriesForChallenge(ch.ID)
	if err != nil {
		return err
	}

	today := ctx.Today()
	window := stats.ResolveTimeframeAt(ch, today)
	rows := stats.BuildHeatmap(entries, window)

	fmt.Printf("%s  %s\n\n", ch.Name, cli.FormatWindow(ch, today))
	fmt.Println(render.Heatmap(rows))
	return nil
}

type RecordsCmd struct {
	Archived bool `help:"Include archived challenges in the scan."`
}

func (c *RecordsCmd) Run(ctx *cli.Context) error {
	challenges, err := ctx.Store.GetAllChallenges(c.Archived, false)
	if err != nil {
		return err
	}

	pairs := make([]stats.ChallengeEntries, 0, len(challenges))
	for _, ch := range challenges {
		entries, err := ctx.Store.GetEntriesForChallenge(ch.ID)
		if err != nil {
			return err
		}
		pairs = append(pairs, stats.ChallengeEntries{Challenge: ch, Entries: entries})
	}

	records := stats.ScanPersonalRecords(pairs)
	fmt.Println(render.Records(records))
	return nil
}
