package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/stats"
	"github.com/tallyhq/tally/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateAddChallenge:
		return m.updateAddForm(msg)
	case stateLogEntry:
		return m.updateLogForm(msg)
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listWidth := msg.Width / 3
		if listWidth < 30 {
			listWidth = 30
		}
		m.list.SetSize(listWidth, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Ignore global shortcuts while the list filter is open
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.today = resolveToday(m.store)
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Add):
			m.chForm = challengeFormModel{}
			m.form = newChallengeForm(&m.chForm)
			m.state = stateAddChallenge
			return m, m.form.Init()

		case key.Matches(msg, m.keys.Log):
			item, ok := m.selected()
			if !ok {
				return m, nil
			}
			entries, err := m.store.GetEntriesForChallenge(item.challenge.ID)
			if err != nil {
				m.err = err
				return m, nil
			}
			suggested := stats.SuggestInitialValue(entries, item.challenge.CountType, m.today)
			m.logForm = entryFormModel{Count: strconv.Itoa(suggested)}
			m.form = newEntryForm(&m.logForm, item.challenge)
			m.state = stateLogEntry
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = stateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveChallenge(); err != nil {
			m.err = err
		} else {
			m.reload()
		}
		m.state = stateList
		return m, nil
	case huh.StateAborted:
		m.state = stateList
		return m, nil
	}

	return m, cmd
}

func (m *Model) saveChallenge() error {
	target, err := strconv.Atoi(strings.TrimSpace(m.chForm.Target))
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	settings, err := m.store.GetSettings()
	if err != nil {
		return err
	}
	countType := settings.DefaultCountType
	if m.chForm.Sets {
		countType = constants.CountTypeSets
	}

	year := time.Now().Year()
	if y, err := strconv.Atoi(m.today[:4]); err == nil {
		year = y
	}

	now := time.Now()
	ch := models.Challenge{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(m.chForm.Name),
		TargetNumber: target,
		Timeframe:    constants.TimeframeYear,
		Year:         year,
		CountType:    countType,
		UnitLabel:    strings.TrimSpace(m.chForm.Unit),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := validation.ValidateChallenge(ch); err != nil {
		return err
	}
	if _, err := m.store.GetChallengeByName(ch.Name); err == nil {
		return fmt.Errorf("challenge %q already exists", ch.Name)
	}
	return m.store.AddChallenge(ch)
}

func (m Model) updateLogForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = stateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveEntry(); err != nil {
			m.err = err
		} else {
			m.reload()
		}
		m.state = stateList
		return m, nil
	case huh.StateAborted:
		m.state = stateList
		return m, nil
	}

	return m, cmd
}

func (m *Model) saveEntry() error {
	item, ok := m.selected()
	if !ok {
		return fmt.Errorf("no challenge selected")
	}

	count, err := strconv.Atoi(strings.TrimSpace(m.logForm.Count))
	if err != nil {
		return fmt.Errorf("invalid count: %w", err)
	}

	now := time.Now()
	entry := models.Entry{
		ID:          uuid.New().String(),
		ChallengeID: item.challenge.ID,
		Day:         m.today,
		Count:       count,
		Note:        strings.TrimSpace(m.logForm.Note),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := validation.ValidateEntry(entry); err != nil {
		return err
	}
	return m.store.AddEntry(entry)
}

func newChallengeForm(fm *challengeFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Target").
				Description("Total number to reach this year").
				Value(&fm.Target).
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
				Value(&fm.Unit),
			huh.NewConfirm().
				Title("Log as sets of reps?").
				Value(&fm.Sets),
		),
	)
}

func newEntryForm(fm *entryFormModel, ch models.Challenge) *huh.Form {
	unit := ch.UnitLabel
	if unit == "" {
		unit = "units"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Count (%s)", unit)).
				Description("Pre-filled with the suggested value from recent history").
				Value(&fm.Count).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if n < 0 {
						return fmt.Errorf("count cannot be negative")
					}
					return nil
				}),
			huh.NewInput().
				Title("Note").
				Value(&fm.Note),
		),
	)
}
