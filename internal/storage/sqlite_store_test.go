package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "tally.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testChallenge(id, name string) models.Challenge {
	now := time.Now()
	return models.Challenge{
		ID:           id,
		Name:         name,
		TargetNumber: 1000,
		StartDate:    "2026-01-01",
		EndDate:      "2026-12-31",
		CountType:    constants.CountTypeSimple,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testEntry(id, challengeID, day string, count int) models.Entry {
	now := time.Now()
	return models.Entry{
		ID:          id,
		ChallengeID: challengeID,
		Day:         day,
		Count:       count,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestInitSeedsDefaultSettings(t *testing.T) {
	store := testStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.Timezone != constants.DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", settings.Timezone, constants.DefaultTimezone)
	}
	if settings.DefaultCountType != constants.CountTypeSimple {
		t.Errorf("DefaultCountType = %q, want simple", settings.DefaultCountType)
	}

	settings.Timezone = "America/New_York"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() after save error = %v", err)
	}
	if got.Timezone != "America/New_York" {
		t.Errorf("Timezone after save = %q", got.Timezone)
	}
}

func TestLoadFailsWithoutInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on missing database should fail")
	}
}

func TestChallengeRoundTrip(t *testing.T) {
	store := testStore(t)

	ch := testChallenge("ch1", "Pushups")
	ch.Timeframe = constants.TimeframeYear
	ch.Year = 2026
	ch.UnitLabel = "reps"
	ch.Color = "#FF5722"
	if err := store.AddChallenge(ch); err != nil {
		t.Fatalf("AddChallenge() error = %v", err)
	}

	got, err := store.GetChallenge("ch1")
	if err != nil {
		t.Fatalf("GetChallenge() error = %v", err)
	}
	if got.Name != "Pushups" || got.TargetNumber != 1000 {
		t.Errorf("got %+v", got)
	}
	if got.Timeframe != constants.TimeframeYear || got.Year != 2026 {
		t.Errorf("timeframe fields lost: %+v", got)
	}
	if got.StartDate != "2026-01-01" || got.EndDate != "2026-12-31" {
		t.Errorf("dates lost: %+v", got)
	}
	if got.UnitLabel != "reps" || got.Color != "#FF5722" {
		t.Errorf("display fields lost: %+v", got)
	}

	byName, err := store.GetChallengeByName("Pushups")
	if err != nil || byName.ID != "ch1" {
		t.Errorf("GetChallengeByName() = %+v, %v", byName, err)
	}

	got.TargetNumber = 1200
	if err := store.UpdateChallenge(got); err != nil {
		t.Fatalf("UpdateChallenge() error = %v", err)
	}
	updated, _ := store.GetChallenge("ch1")
	if updated.TargetNumber != 1200 {
		t.Errorf("TargetNumber after update = %d", updated.TargetNumber)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	store := testStore(t)
	if err := store.AddChallenge(testChallenge("ch1", "Pushups")); err != nil {
		t.Fatal(err)
	}

	e := testEntry("e1", "ch1", "2026-01-09", 30)
	e.Sets = []int{12, 10, 8}
	e.Note = "morning session"
	e.Feeling = "strong"
	if err := store.AddEntry(e); err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}

	got, err := store.GetEntry("e1")
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if got.Day != "2026-01-09" || got.Count != 30 {
		t.Errorf("got %+v", got)
	}
	if len(got.Sets) != 3 || got.Sets[0] != 12 || got.Sets[2] != 8 {
		t.Errorf("Sets = %v", got.Sets)
	}
	if got.Note != "morning session" || got.Feeling != "strong" {
		t.Errorf("text fields lost: %+v", got)
	}

	// Full replacement update
	got.Count = 25
	got.Sets = []int{15, 10}
	if err := store.UpdateEntry(got); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	updated, _ := store.GetEntry("e1")
	if updated.Count != 25 || len(updated.Sets) != 2 {
		t.Errorf("after update: %+v", updated)
	}
}

func TestEntriesQueries(t *testing.T) {
	store := testStore(t)
	store.AddChallenge(testChallenge("ch1", "Pushups"))
	store.AddChallenge(testChallenge("ch2", "Pages"))

	store.AddEntry(testEntry("e1", "ch1", "2026-01-08", 10))
	store.AddEntry(testEntry("e2", "ch1", "2026-01-09", 20))
	store.AddEntry(testEntry("e3", "ch2", "2026-01-09", 5))

	forChallenge, err := store.GetEntriesForChallenge("ch1")
	if err != nil || len(forChallenge) != 2 {
		t.Errorf("GetEntriesForChallenge() = %d entries, %v", len(forChallenge), err)
	}
	if forChallenge[0].Day != "2026-01-08" {
		t.Errorf("entries not ordered by day: %+v", forChallenge)
	}

	forDay, err := store.GetEntriesForDay("2026-01-09")
	if err != nil || len(forDay) != 2 {
		t.Errorf("GetEntriesForDay() = %d entries, %v", len(forDay), err)
	}

	all, err := store.GetAllEntries()
	if err != nil || len(all) != 3 {
		t.Errorf("GetAllEntries() = %d entries, %v", len(all), err)
	}
}

func TestDeleteChallengeCascades(t *testing.T) {
	store := testStore(t)
	store.AddChallenge(testChallenge("ch1", "Pushups"))
	store.AddEntry(testEntry("e1", "ch1", "2026-01-08", 10))
	store.AddEntry(testEntry("e2", "ch1", "2026-01-09", 20))

	if err := store.DeleteChallenge("ch1"); err != nil {
		t.Fatalf("DeleteChallenge() error = %v", err)
	}

	if _, err := store.GetChallenge("ch1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("deleted challenge still visible: %v", err)
	}
	entries, _ := store.GetEntriesForChallenge("ch1")
	if len(entries) != 0 {
		t.Errorf("cascade left %d entries visible", len(entries))
	}

	if err := store.RestoreChallenge("ch1"); err != nil {
		t.Fatalf("RestoreChallenge() error = %v", err)
	}
	if _, err := store.GetChallenge("ch1"); err != nil {
		t.Errorf("restored challenge not visible: %v", err)
	}
	entries, _ = store.GetEntriesForChallenge("ch1")
	if len(entries) != 2 {
		t.Errorf("restore brought back %d entries, want 2", len(entries))
	}
}

func TestRestoreSkipsIndividuallyDeletedEntries(t *testing.T) {
	store := testStore(t)
	store.AddChallenge(testChallenge("ch1", "Pushups"))
	store.AddEntry(testEntry("e1", "ch1", "2026-01-08", 10))
	store.AddEntry(testEntry("e2", "ch1", "2026-01-09", 20))

	if err := store.DeleteEntry("e1"); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	// The cascade timestamp differs from e1's own delete timestamp, so the
	// restore must not resurrect e1.
	time.Sleep(1100 * time.Millisecond)

	if err := store.DeleteChallenge("ch1"); err != nil {
		t.Fatalf("DeleteChallenge() error = %v", err)
	}
	if err := store.RestoreChallenge("ch1"); err != nil {
		t.Fatalf("RestoreChallenge() error = %v", err)
	}

	entries, _ := store.GetEntriesForChallenge("ch1")
	if len(entries) != 1 || entries[0].ID != "e2" {
		t.Errorf("restore resurrected wrong entries: %+v", entries)
	}
}

func TestArchiveChallenge(t *testing.T) {
	store := testStore(t)
	store.AddChallenge(testChallenge("ch1", "Pushups"))

	if err := store.ArchiveChallenge("ch1"); err != nil {
		t.Fatalf("ArchiveChallenge() error = %v", err)
	}

	active, _ := store.GetAllChallenges(false, false)
	if len(active) != 0 {
		t.Errorf("archived challenge still listed as active")
	}
	withArchived, _ := store.GetAllChallenges(true, false)
	if len(withArchived) != 1 || withArchived[0].ArchivedAt == nil {
		t.Errorf("archived challenge missing from inclusive listing: %+v", withArchived)
	}

	if err := store.UnarchiveChallenge("ch1"); err != nil {
		t.Fatalf("UnarchiveChallenge() error = %v", err)
	}
	active, _ = store.GetAllChallenges(false, false)
	if len(active) != 1 {
		t.Error("unarchived challenge not listed")
	}
}

func TestMissingRowsReportNoRows(t *testing.T) {
	store := testStore(t)

	if err := store.ArchiveChallenge("nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ArchiveChallenge(missing) = %v, want ErrNoRows", err)
	}
	if err := store.DeleteEntry("nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeleteEntry(missing) = %v, want ErrNoRows", err)
	}
}
