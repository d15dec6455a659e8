package challenges

import (
	"path/filepath"
	"testing"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/storage"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func addChallenge(t *testing.T, ctx *cli.Context, name string, target int) {
	t.Helper()
	cmd := &ChallengeAddCmd{Name: name, Target: target}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("failed to add challenge %q: %v", name, err)
	}
}

func TestChallengeAddCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addChallenge(t, ctx, "Pushups", 10000)

	ch, err := ctx.Store.GetChallengeByName("Pushups")
	if err != nil {
		t.Fatalf("challenge not stored: %v", err)
	}
	if ch.TargetNumber != 10000 {
		t.Errorf("target = %d, want 10000", ch.TargetNumber)
	}
	if ch.Timeframe != constants.TimeframeYear {
		t.Errorf("timeframe = %s, want year", ch.Timeframe)
	}
	if ch.Year == 0 {
		t.Error("year should default to the current year")
	}
	if ch.CountType != constants.CountTypeSimple {
		t.Errorf("count type = %s, want default simple", ch.CountType)
	}
}

func TestChallengeAddCmd_DuplicateName(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addChallenge(t, ctx, "Pushups", 100)

	cmd := &ChallengeAddCmd{Name: "Pushups", Target: 200}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
}

func TestChallengeAddCmd_CustomWindow(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &ChallengeAddCmd{
		Name:   "Reading sprint",
		Target: 500,
		Start:  "2026-03-01",
		End:    "2026-03-31",
		Unit:   "pages",
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	ch, err := ctx.Store.GetChallengeByName("Reading sprint")
	if err != nil {
		t.Fatalf("challenge not stored: %v", err)
	}
	if ch.Timeframe != constants.TimeframeCustom {
		t.Errorf("timeframe = %s, want custom", ch.Timeframe)
	}
	if ch.StartDate != "2026-03-01" || ch.EndDate != "2026-03-31" {
		t.Errorf("window = %s..%s", ch.StartDate, ch.EndDate)
	}
}

func TestChallengeAddCmd_InvalidWindow(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &ChallengeAddCmd{Name: "Bad", Target: 10, Start: "2026-03-31", End: "2026-03-01"}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected reversed window to be rejected")
	}

	cmd = &ChallengeAddCmd{Name: "Bad", Target: 10, Start: "2026-03-01"}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected start without end to be rejected")
	}
}

func TestChallengeAddCmd_SetsFlag(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &ChallengeAddCmd{Name: "Pushups", Target: 10000, Sets: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	ch, err := ctx.Store.GetChallengeByName("Pushups")
	if err != nil {
		t.Fatalf("challenge not stored: %v", err)
	}
	if ch.CountType != constants.CountTypeSets {
		t.Errorf("count type = %s, want sets", ch.CountType)
	}
}

func TestChallengeListCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addChallenge(t, ctx, "Pushups", 100)
	addChallenge(t, ctx, "Pages", 500)

	cmd := &ChallengeListCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestChallengeShowCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addChallenge(t, ctx, "Pushups", 100)

	cmd := &ChallengeShowCmd{Name: "Pushups"}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}

	cmd = &ChallengeShowCmd{Name: "nope"}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for unknown challenge")
	}
}

func TestChallengeArchiveUnarchive(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addChallenge(t, ctx, "Pushups", 100)

	if err := (&ChallengeArchiveCmd{Name: "Pushups"}).Run(ctx); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	active, err := ctx.Store.GetAllChallenges(false, false)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("archived challenge still listed as active")
	}

	if err := (&ChallengeUnarchiveCmd{Name: "Pushups"}).Run(ctx); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}

	active, err = ctx.Store.GetAllChallenges(false, false)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("unarchived challenge not listed")
	}
}

func TestChallengeDeleteRestore(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addChallenge(t, ctx, "Pushups", 100)

	if err := (&ChallengeDeleteCmd{Name: "Pushups"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := ctx.FindChallenge("Pushups"); err == nil {
		t.Error("deleted challenge should not be findable")
	}

	if err := (&ChallengeRestoreCmd{Name: "Pushups"}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if _, err := ctx.FindChallenge("Pushups"); err != nil {
		t.Errorf("restored challenge not findable: %v", err)
	}

	if err := (&ChallengeRestoreCmd{Name: "Pushups"}).Run(ctx); err == nil {
		t.Error("restoring a live challenge should fail")
	}
}
