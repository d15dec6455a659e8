// Package render turns derived statistics into styled terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(18)

	aheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	onPaceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	behindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)

	recordValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// Green intensity scale, darkest to brightest, indexed by level 1..4.
	// Level 0 uses a dim placeholder cell.
	heatEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	heatStyles     = [4]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
)

// PaceBadge renders the pace classification as a short colored tag.
func PaceBadge(status constants.PaceStatus) string {
	switch status {
	case constants.PaceAhead:
		return aheadStyle.Render("ahead")
	case constants.PaceBehind:
		return behindStyle.Render("behind")
	default:
		return onPaceStyle.Render("on pace")
	}
}

// Stats renders the full statistics snapshot for one challenge.
func Stats(ch models.Challenge, s stats.ChallengeStats) string {
	var b strings.Builder

	title := ch.Name
	if ch.Icon != "" {
		title = ch.Icon + " " + title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	unit := ch.UnitLabel
	if unit == "" {
		unit = "units"
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Progress", fmt.Sprintf("%d / %d %s (%d remaining)", s.Total, ch.TargetNumber, unit, s.Remaining))
	row("Pace", fmt.Sprintf("%s (%+.1f vs expected %.1f)", PaceBadge(s.PaceStatus), s.PaceOffset, s.ExpectedTotal))
	row("Days", fmt.Sprintf("%d elapsed, %d left", s.DaysElapsed, s.DaysLeft))
	row("Needed per day", fmt.Sprintf("%.1f", s.PerDayRequired))
	row("Current per day", fmt.Sprintf("%.1f", s.CurrentPerDay))
	row("Daily average", fmt.Sprintf("%.1f", s.DailyAverage))
	row("Streak", fmt.Sprintf("%d current, %d best", s.StreakCurrent, s.StreakBest))
	if s.BestDay != nil {
		row("Best day", fmt.Sprintf("%d on %s", s.BestDay.Count, s.BestDay.Day))
	}

	return b.String()
}

// Heatmap renders the weekly intensity grid, one week per line, Sunday
// first. Padding cells outside the window render as blanks.
func Heatmap(rows []stats.WeekRow) string {
	if len(rows) == 0 {
		return detailStyle.Render("No activity window.")
	}

	var b strings.Builder
	b.WriteString(detailStyle.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	for _, week := range rows {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			cells = append(cells, heatCell(day))
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	return b.String()
}

func heatCell(day stats.HeatmapDay) string {
	if day.Day == "" {
		return "  "
	}
	if day.Level <= 0 {
		return heatEmptyStyle.Render("··")
	}
	level := day.Level
	if level > 4 {
		level = 4
	}
	return heatStyles[level-1].Render("██")
}

// Records renders the personal-records scan. Labels are left-aligned to
// the widest entry so the values line up.
func Records(records []stats.PersonalRecord) string {
	if len(records) == 0 {
		return detailStyle.Render("No records yet. Log some entries first.")
	}

	width := 0
	for _, r := range records {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Personal records"))
	b.WriteString("\n\n")
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%-*s  %s  %s\n",
			width, r.Label,
			recordValueStyle.Render(fmt.Sprintf("%d", r.Value)),
			detailStyle.Render(r.Detail)))
	}

	return b.String()
}

// ChallengeLine is the one-line list representation of a challenge with
// its pace badge.
func ChallengeLine(ch models.Challenge, s stats.ChallengeStats) string {
	status := ""
	if ch.DeletedAt != nil {
		status = " [DELETED]"
	} else if ch.ArchivedAt != nil {
		status = " [ARCHIVED]"
	}
	return fmt.Sprintf("%-24s %6d/%-6d %s%s", ch.Name, s.Total, ch.TargetNumber, PaceBadge(s.PaceStatus), status)
}
