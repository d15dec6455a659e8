package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

func setupStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedChallenge(t *testing.T, store *storage.SQLiteStore, name string) models.Challenge {
	t.Helper()
	now := time.Now()
	ch := models.Challenge{
		ID:           uuid.New().String(),
		Name:         name,
		TargetNumber: 1000,
		Timeframe:    constants.TimeframeYear,
		Year:         now.Year(),
		CountType:    constants.CountTypeSimple,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.AddChallenge(ch); err != nil {
		t.Fatalf("failed to seed challenge: %v", err)
	}
	return ch
}

func TestNewModelLoadsChallenges(t *testing.T) {
	store := setupStore(t)
	seedChallenge(t, store, "Pushups")
	seedChallenge(t, store, "Pages")

	m := NewModel(store)

	if m.err != nil {
		t.Fatalf("unexpected load error: %v", m.err)
	}
	if got := len(m.list.Items()); got != 2 {
		t.Errorf("list has %d items, want 2", got)
	}
	if len(m.today) != 10 {
		t.Errorf("today = %q, want YYYY-MM-DD", m.today)
	}
}

func TestChallengeItemText(t *testing.T) {
	store := setupStore(t)
	ch := seedChallenge(t, store, "Pushups")

	now := time.Now()
	entry := models.Entry{
		ID:          uuid.New().String(),
		ChallengeID: ch.ID,
		Day:         now.Format(constants.DateFormat),
		Count:       40,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddEntry(entry); err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}

	m := NewModel(store)
	item, ok := m.selected()
	if !ok {
		t.Fatal("no selected item")
	}

	if item.Title() != "Pushups" {
		t.Errorf("title = %q", item.Title())
	}
	if !strings.Contains(item.Description(), "40/1000") {
		t.Errorf("description = %q, want progress 40/1000", item.Description())
	}
	if item.FilterValue() != "Pushups" {
		t.Errorf("filter value = %q", item.FilterValue())
	}
}

func TestReloadExcludesArchived(t *testing.T) {
	store := setupStore(t)
	ch := seedChallenge(t, store, "Pushups")
	seedChallenge(t, store, "Pages")

	m := NewModel(store)
	if got := len(m.list.Items()); got != 2 {
		t.Fatalf("list has %d items, want 2", got)
	}

	if err := store.ArchiveChallenge(ch.ID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	m.reload()

	if got := len(m.list.Items()); got != 1 {
		t.Errorf("list has %d items after archive, want 1", got)
	}
}
