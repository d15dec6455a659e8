package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallyhq/tally/internal/render"
	"github.com/tallyhq/tally/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == stateAddChallenge || m.state == stateLogEntry {
		return m.form.View()
	}

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.list.View(),
		detailPaneStyle.Render(m.viewDetail()),
	)

	status := statusBarStyle.Render(fmt.Sprintf("today: %s", m.today))
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("error: %v", m.err))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		main,
		status,
		m.help.View(m.keys),
	)
}

func (m Model) viewDetail() string {
	item, ok := m.selected()
	if !ok {
		return "No challenges yet.\n\nPress 'a' to add one."
	}

	entries, err := m.store.GetEntriesForChallenge(item.challenge.ID)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("error: %v", err))
	}

	window := stats.ResolveTimeframeAt(item.challenge, m.today)
	heatmap := render.Heatmap(stats.BuildHeatmap(entries, window))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		render.Stats(item.challenge, item.stats),
		"",
		heatmap,
	)
}
