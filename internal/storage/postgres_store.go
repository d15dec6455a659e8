package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/migration"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/migrations"
)

// ErrEmbeddedCredentials is returned when a connection string carries a
// password inline instead of using the keyring, environment, or .pgpass.
var ErrEmbeddedCredentials = errors.New("connection string contains embedded credentials")

// PostgresStore is the shared-database backend.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{connStr: connStr}
}

// IsPostgresTarget reports whether the config value looks like a postgres
// connection string rather than a sqlite file path.
func IsPostgresTarget(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// HasEmbeddedCredentials detects a password embedded in a URL-style
// connection string.
func HasEmbeddedCredentials(connStr string) bool {
	if !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
		return strings.Contains(connStr, "password=")
	}
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

// ValidateConnString checks a connection string for security problems.
func ValidateConnString(connStr string) (bool, error) {
	if HasEmbeddedCredentials(connStr) {
		return false, ErrEmbeddedCredentials
	}
	return true, nil
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

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

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetConfigPath returns the connection string with any password masked.
func (s *PostgresStore) GetConfigPath() string {
	u, err := url.Parse(s.connStr)
	if err != nil || u.User == nil {
		return s.connStr
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}

func (s *PostgresStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *PostgresStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

// Settings

func (s *PostgresStore) GetSettings() (models.Settings, error) {
	row := s.db.QueryRow("SELECT id, timezone, default_count_type FROM settings WHERE id = 1")

	var settings models.Settings
	var countType string
	if err := row.Scan(&settings.ID, &settings.Timezone, &countType); err != nil {
		return models.Settings{}, err
	}
	settings.DefaultCountType = constants.CountType(countType)
	return settings, nil
}

func (s *PostgresStore) SaveSettings(settings models.Settings) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (id, timezone, default_count_type)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			default_count_type = EXCLUDED.default_count_type`,
		settings.Timezone, string(settings.DefaultCountType))
	return err
}

// Challenges

func (s *PostgresStore) AddChallenge(ch models.Challenge) error {
	_, err := s.db.Exec(`
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULL, NULL)`,
		ch.ID, ch.Name, ch.TargetNumber,
		nullString(ch.StartDate), nullString(ch.EndDate), nullString(string(ch.Timeframe)),
		nullInt(ch.Year), string(ch.CountType), nullString(ch.UnitLabel),
		nullString(ch.Color), nullString(ch.Icon),
		formatTimestamp(ch.CreatedAt), formatTimestamp(ch.UpdatedAt))
	return err
}

func (s *PostgresStore) GetChallenge(id string) (models.Challenge, error) {
	row := s.db.QueryRow(`
		SELECT `+challengeColumns+`
		FROM challenges WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanChallenge(row)
}

func (s *PostgresStore) GetChallengeByName(name string) (models.Challenge, error) {
	row := s.db.QueryRow(`
		SELECT `+challengeColumns+`
		FROM challenges WHERE name = $1 AND deleted_at IS NULL`, name)
	return scanChallenge(row)
}

func (s *PostgresStore) GetAllChallenges(includeArchived, includeDeleted bool) ([]models.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges WHERE TRUE"
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

func (s *PostgresStore) UpdateChallenge(ch models.Challenge) error {
	res, err := s.db.Exec(`
		UPDATE challenges SET
			name = $1, target_number = $2, start_date = $3, end_date = $4,
			timeframe = $5, year = $6, count_type = $7, unit_label = $8,
			color = $9, icon = $10, updated_at = $11
		WHERE id = $12 AND deleted_at IS NULL`,
		ch.Name, ch.TargetNumber, nullString(ch.StartDate), nullString(ch.EndDate),
		nullString(string(ch.Timeframe)), nullInt(ch.Year), string(ch.CountType),
		nullString(ch.UnitLabel), nullString(ch.Color), nullString(ch.Icon),
		formatTimestamp(time.Now()), ch.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) ArchiveChallenge(id string) error {
	res, err := s.db.Exec(
		"UPDATE challenges SET archived_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		formatTimestamp(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) UnarchiveChallenge(id string) error {
	res, err := s.db.Exec(
		"UPDATE challenges SET archived_at = NULL WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteChallenge(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	now := formatTimestamp(time.Now())

	res, err := tx.Exec(
		"UPDATE challenges SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL", now, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := requireRow(res); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"UPDATE entries SET deleted_at = $1 WHERE challenge_id = $2 AND deleted_at IS NULL", now, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) RestoreChallenge(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var deletedAt sql.NullString
	if err := tx.QueryRow(
		"SELECT deleted_at FROM challenges WHERE id = $1", id).Scan(&deletedAt); err != nil {
		_ = tx.Rollback()
		return err
	}
	if !deletedAt.Valid {
		_ = tx.Rollback()
		return fmt.Errorf("challenge %s is not deleted", id)
	}

	if _, err := tx.Exec(
		"UPDATE challenges SET deleted_at = NULL WHERE id = $1", id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"UPDATE entries SET deleted_at = NULL WHERE challenge_id = $1 AND deleted_at = $2",
		id, deletedAt.String); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Entries

func (s *PostgresStore) AddEntry(e models.Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL)`,
		e.ID, e.ChallengeID, e.Day, e.Count,
		encodeSets(e.Sets), nullString(e.Note), nullString(e.Feeling),
		formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt))
	return err
}

func (s *PostgresStore) GetEntry(id string) (models.Entry, error) {
	row := s.db.QueryRow(`
		SELECT `+entryColumns+`
		FROM entries WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanEntry(row)
}

func (s *PostgresStore) GetEntriesForChallenge(challengeID string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+`
		FROM entries WHERE challenge_id = $1 AND deleted_at IS NULL
		ORDER BY day, created_at`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *PostgresStore) GetEntriesForDay(day string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+`
		FROM entries WHERE day = $1 AND deleted_at IS NULL
		ORDER BY created_at`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *PostgresStore) GetAllEntries() ([]models.Entry, error) {
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

func (s *PostgresStore) UpdateEntry(e models.Entry) error {
	res, err := s.db.Exec(`
		UPDATE entries SET
			day = $1, count = $2, sets = $3, note = $4, feeling = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL`,
		e.Day, e.Count, encodeSets(e.Sets), nullString(e.Note), nullString(e.Feeling),
		formatTimestamp(time.Now()), e.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteEntry(id string) error {
	res, err := s.db.Exec(
		"UPDATE entries SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		formatTimestamp(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
