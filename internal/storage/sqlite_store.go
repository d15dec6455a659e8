package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/lockfile"
	"github.com/tallyhq/tally/internal/migration"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/migrations"
)

// SQLiteStore is the default local storage backend.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := lockfile.Acquire(s.path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default settings on first init
	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{
			ID:               1,
			Timezone:         constants.DefaultTimezone,
			DefaultCountType: constants.CountTypeSimple,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'tally init' first")
	}

	if err := lockfile.Acquire(s.path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	return lockfile.Release(s.path)
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB exposes the underlying handle for diagnostics.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

// Settings

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	row := s.db.QueryRow("SELECT id, timezone, default_count_type FROM settings WHERE id = 1")

	var settings models.Settings
	var countType string
	if err := row.Scan(&settings.ID, &settings.Timezone, &countType); err != nil {
		return models.Settings{}, err
	}
	settings.DefaultCountType = constants.CountType(countType)
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (id, timezone, default_count_type)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timezone = excluded.timezone,
			default_count_type = excluded.default_count_type`,
		settings.Timezone, string(settings.DefaultCountType))
	return err
}

// Challenges

func (s *SQLiteStore) AddChallenge(ch models.Challenge) error {
	_, err := s.db.Exec(`
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)`,
		ch.ID, ch.Name, ch.TargetNumber,
		nullString(ch.StartDate), nullString(ch.EndDate), nullString(string(ch.Timeframe)),
		nullInt(ch.Year), string(ch.CountType), nullString(ch.UnitLabel),
		nullString(ch.Color), nullString(ch.Icon),
		formatTimestamp(ch.CreatedAt), formatTimestamp(ch.UpdatedAt))
	return err
}

func (s *SQLiteStore) GetChallenge(id string) (models.Challenge, error) {
	row := s.db.QueryRow(`
		SELECT `+challengeColumns+`
		FROM challenges WHERE id = ? AND deleted_at IS NULL`, id)
	return scanChallenge(row)
}

func (s *SQLiteStore) GetChallengeByName(name string) (models.Challenge, error) {
	row := s.db.QueryRow(`
		SELECT `+challengeColumns+`
		FROM challenges WHERE name = ? AND deleted_at IS NULL`, name)
	return scanChallenge(row)
}

func (s *SQLiteStore) GetAllChallenges(includeArchived, includeDeleted bool) ([]models.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

func (s *SQLiteStore) UpdateChallenge(ch models.Challenge) error {
	res, err := s.db.Exec(`
		UPDATE challenges SET
			name = ?, target_number = ?, start_date = ?, end_date = ?,
			timeframe = ?, year = ?, count_type = ?, unit_label = ?,
			color = ?, icon = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		ch.Name, ch.TargetNumber, nullString(ch.StartDate), nullString(ch.EndDate),
		nullString(string(ch.Timeframe)), nullInt(ch.Year), string(ch.CountType),
		nullString(ch.UnitLabel), nullString(ch.Color), nullString(ch.Icon),
		formatTimestamp(time.Now()), ch.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) ArchiveChallenge(id string) error {
	res, err := s.db.Exec(
		"UPDATE challenges SET archived_at = ? WHERE id = ? AND deleted_at IS NULL",
		formatTimestamp(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) UnarchiveChallenge(id string) error {
	res, err := s.db.Exec(
		"UPDATE challenges SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteChallenge soft-deletes a challenge and cascades to its entries in
// one transaction.
func (s *SQLiteStore) DeleteChallenge(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	now := formatTimestamp(time.Now())

	res, err := tx.Exec(
		"UPDATE challenges SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", now, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := requireRow(res); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"UPDATE entries SET deleted_at = ? WHERE challenge_id = ? AND deleted_at IS NULL", now, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RestoreChallenge undoes a soft delete, restoring only the entries that
// were removed by the same cascade (entries deleted individually before the
// challenge stay deleted).
func (s *SQLiteStore) RestoreChallenge(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var deletedAt sql.NullString
	if err := tx.QueryRow(
		"SELECT deleted_at FROM challenges WHERE id = ?", id).Scan(&deletedAt); err != nil {
		_ = tx.Rollback()
		return err
	}
	if !deletedAt.Valid {
		_ = tx.Rollback()
		return fmt.Errorf("challenge %s is not deleted", id)
	}

	if _, err := tx.Exec(
		"UPDATE challenges SET deleted_at = NULL WHERE id = ?", id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"UPDATE entries SET deleted_at = NULL WHERE challenge_id = ? AND deleted_at = ?",
		id, deletedAt.String); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Entries

func (s *SQLiteStore) AddEntry(e models.Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		e.ID, e.ChallengeID, e.Day, e.Count,
		encodeSets(e.Sets), nullString(e.Note), nullString(e.Feeling),
		formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt))
	return err
}

func (s *SQLiteStore) GetEntry(id string) (models.Entry, error) {
	row := s.db.QueryRow(`
		SELECT `+entryColumns+`
		FROM entries WHERE id = ? AND deleted_at IS NULL`, id)
	return scanEntry(row)
}

func (s *SQLiteStore) GetEntriesForChallenge(challengeID string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+`
		FROM entries WHERE challenge_id = ? AND deleted_at IS NULL
		ORDER BY day, created_at`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *SQLiteStore) GetEntriesForDay(day string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+`
		FROM entries WHERE day = ? AND deleted_at IS NULL
		ORDER BY created_at`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *SQLiteStore) GetAllEntries() ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT ` + entryColumns + `
		FROM entries WHERE deleted_at IS NULL
		ORDER BY day, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// UpdateEntry replaces the whole entry; there is no partial count update.
func (s *SQLiteStore) UpdateEntry(e models.Entry) error {
	res, err := s.db.Exec(`
		UPDATE entries SET
			day = ?, count = ?, sets = ?, note = ?, feeling = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		e.Day, e.Count, encodeSets(e.Sets), nullString(e.Note), nullString(e.Feeling),
		formatTimestamp(time.Now()), e.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteEntry(id string) error {
	res, err := s.db.Exec(
		"UPDATE entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		formatTimestamp(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func collectEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
