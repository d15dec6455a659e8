package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/render"
	"github.com/tallyhq/tally/internal/stats"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/internal/utils"
)

type viewState int

const (
	stateList viewState = iota
	stateAddChallenge
	stateLogEntry
)

// challengeItem is one list row: a challenge plus its derived snapshot.
type challengeItem struct {
	challenge models.Challenge
	stats     stats.ChallengeStats
}

func (i challengeItem) Title() string {
	title := i.challenge.Name
	if i.challenge.Icon != "" {
		title = i.challenge.Icon + " " + title
	}
	return title
}

func (i challengeItem) Description() string {
	return fmt.Sprintf("%d/%d · %s", i.stats.Total, i.challenge.TargetNumber, render.PaceBadge(i.stats.PaceStatus))
}

func (i challengeItem) FilterValue() string { return i.challenge.Name }

type keyMap struct {
	Add     key.Binding
	Log     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add challenge"),
		),
		Log: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log entry"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Log, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Add, k.Log}, {k.Refresh, k.Help, k.Quit}}
}

type challengeFormModel struct {
	Name   string
	Target string
	Unit   string
	Sets   bool
}

type entryFormModel struct {
	Count string
	Note  string
}

type Model struct {
	store storage.Provider
	list  list.Model
	keys  keyMap
	help  help.Model

	state    viewState
	form     *huh.Form
	chForm   challengeFormModel
	logForm  entryFormModel
	today    string
	width    int
	height   int
	err      error
	quitting bool
}

func NewModel(store storage.Provider) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "tally"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	m := Model{
		store: store,
		list:  l,
		keys:  defaultKeyMap(),
		help:  help.New(),
		state: stateList,
		today: resolveToday(store),
	}
	m.reload()
	return m
}

func resolveToday(store storage.Provider) string {
	settings, err := store.GetSettings()
	if err == nil {
		if day, err := utils.TodayFromSettings(settings); err == nil {
			return day
		}
	}
	day, _ := utils.TodayInTimezone("")
	return day
}

// reload refreshes the challenge list and derived stats from storage.
func (m *Model) reload() {
	challenges, err := m.store.GetAllChallenges(false, false)
	if err != nil {
		m.err = err
		return
	}

	items := make([]list.Item, 0, len(challenges))
	for _, ch := range challenges {
		entries, err := m.store.GetEntriesForChallenge(ch.ID)
		if err != nil {
			m.err = err
			return
		}
		items = append(items, challengeItem{
			challenge: ch,
			stats:     stats.ComputeStats(ch, entries, m.today),
		})
	}
	m.list.SetItems(items)
	m.err = nil
}

func (m Model) selected() (challengeItem, bool) {
	item, ok := m.list.SelectedItem().(challengeItem)
	return item, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}
