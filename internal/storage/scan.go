package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tallyhq/tally/internal/constants"
	"github.com/tallyhq/tally/internal/models"
)

// Row scanning and encoding shared by the SQLite and Postgres stores. Both
// schemas store timestamps as RFC3339 text and entry sets as a JSON array.

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	challengeColumns = "id, name, target_number, start_date, end_date, timeframe, year, count_type, unit_label, color, icon, created_at, updated_at, archived_at, deleted_at"
	entryColumns     = "id, challenge_id, day, count, sets, note, feeling, created_at, updated_at, deleted_at"
)

func scanChallenge(row rowScanner) (models.Challenge, error) {
	var ch models.Challenge
	var startDate, endDate, timeframe, countType, unitLabel, color, icon sql.NullString
	var year sql.NullInt64
	var createdAt, updatedAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(
		&ch.ID, &ch.Name, &ch.TargetNumber,
		&startDate, &endDate, &timeframe, &year, &countType, &unitLabel, &color, &icon,
		&createdAt, &updatedAt, &archivedAt, &deletedAt,
	)
	if err != nil {
		return models.Challenge{}, err
	}

	ch.StartDate = startDate.String
	ch.EndDate = endDate.String
	ch.Timeframe = constants.TimeframeUnit(timeframe.String)
	ch.Year = int(year.Int64)
	ch.CountType = constants.CountType(countType.String)
	ch.UnitLabel = unitLabel.String
	ch.Color = color.String
	ch.Icon = icon.String

	if ch.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if ch.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if ch.ArchivedAt, err = parseNullTimestamp(archivedAt); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse archived_at: %w", err)
	}
	if ch.DeletedAt, err = parseNullTimestamp(deletedAt); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse deleted_at: %w", err)
	}
	return ch, nil
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var sets, note, feeling sql.NullString
	var createdAt, updatedAt string
	var deletedAt sql.NullString

	err := row.Scan(
		&e.ID, &e.ChallengeID, &e.Day, &e.Count,
		&sets, &note, &feeling,
		&createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return models.Entry{}, err
	}

	if sets.Valid && sets.String != "" {
		if err := json.Unmarshal([]byte(sets.String), &e.Sets); err != nil {
			return models.Entry{}, fmt.Errorf("failed to decode sets: %w", err)
		}
	}
	e.Note = note.String
	e.Feeling = feeling.String

	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if e.DeletedAt, err = parseNullTimestamp(deletedAt); err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse deleted_at: %w", err)
	}
	return e, nil
}

func encodeSets(sets []int) sql.NullString {
	if len(sets) == 0 {
		return sql.NullString{}
	}
	data, err := json.Marshal(sets)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
