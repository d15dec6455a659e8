package system

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/tallyhq/tally/internal/backup"
	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/migration"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	checks := []struct {
		name string
		fn   func(*cli.Context) error
	}{
		{"Schema version", checkSchemaVersion},
		{"Settings present", checkSettings},
		{"Challenge integrity", checkChallengeIntegrity},
		{"Entry references", checkEntryReferences},
		{"Date formats", checkDateFormats},
		{"Timestamp integrity", checkTimestampIntegrity},
	}

	for _, check := range checks {
		if !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}
		if err := check.fn(ctx); err != nil {
			fmt.Printf("❌ %s: FAIL\n", check.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ %s: OK\n", check.name)
		}
	}

	// Backups are a warning, not a failure.
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	if err := checkClockTimezone(ctx); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// Postgres validates its schema version on Load
		return nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access migrations: %w", err)
	}
	return migration.NewRunner(db, subFS).ValidateVersion()
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.ID != 1 {
		return fmt.Errorf("settings row has unexpected id %d", settings.ID)
	}
	return nil
}

func checkChallengeIntegrity(ctx *cli.Context) error {
	challenges, err := ctx.Store.GetAllChallenges(true, true)
	if err != nil {
		return fmt.Errorf("failed to get challenges: %w", err)
	}

	ids := make(map[string]bool, len(challenges))
	names := make(map[string]bool, len(challenges))
	for _, ch := range challenges {
		if ids[ch.ID] {
			return fmt.Errorf("duplicate challenge ID found: %s", ch.ID)
		}
		ids[ch.ID] = true

		if ch.DeletedAt == nil {
			if names[ch.Name] {
				return fmt.Errorf("duplicate challenge name found: %s", ch.Name)
			}
			names[ch.Name] = true
		}

		if ch.TargetNumber < 1 {
			return fmt.Errorf("challenge %q has invalid target %d", ch.Name, ch.TargetNumber)
		}
	}

	return nil
}

func checkEntryReferences(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var orphanedCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM entries e
		LEFT JOIN challenges c ON e.challenge_id = c.id
		WHERE c.id IS NULL AND e.deleted_at IS NULL
	`).Scan(&orphanedCount)
	if err != nil {
		return fmt.Errorf("failed to check orphaned entries: %w", err)
	}
	if orphanedCount > 0 {
		return fmt.Errorf("found %d orphaned entries (referencing non-existent challenges)", orphanedCount)
	}

	return nil
}

func checkDateFormats(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var invalidCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM entries
		WHERE day NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check entry dates: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d entries with invalid date format", invalidCount)
	}

	return nil
}

func checkTimestampIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var corruptedCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM entries
		WHERE created_at = '' OR updated_at = ''
	`).Scan(&corruptedCount)
	if err != nil {
		return fmt.Errorf("failed to check entry timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d entries with corrupted timestamps", corruptedCount)
	}

	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM challenges
		WHERE created_at = ''
	`).Scan(&corruptedCount)
	if err != nil {
		return fmt.Errorf("failed to check challenge timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d challenges with corrupted timestamps", corruptedCount)
	}

	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tally backup create'")
	}

	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Store.GetSettings()
	if err == nil && settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil && settings.Timezone != "Local" {
			return fmt.Errorf("configured timezone %q is not loadable: %w", settings.Timezone, err)
		}
	}

	return nil
}
