package storage

import "github.com/tallyhq/tally/internal/models"

// Provider is the persistence surface for challenges, entries, and
// settings. Deletes are soft; deleting a challenge cascades to its entries
// and restoring it brings them back.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Challenges
	AddChallenge(models.Challenge) error
	GetChallenge(id string) (models.Challenge, error)
	GetChallengeByName(name string) (models.Challenge, error)
	GetAllChallenges(includeArchived, includeDeleted bool) ([]models.Challenge, error)
	UpdateChallenge(models.Challenge) error
	ArchiveChallenge(id string) error
	UnarchiveChallenge(id string) error
	DeleteChallenge(id string) error
	RestoreChallenge(id string) error

	// Entries
	AddEntry(models.Entry) error
	GetEntry(id string) (models.Entry, error)
	GetEntriesForChallenge(challengeID string) ([]models.Entry, error)
	GetEntriesForDay(day string) ([]models.Entry, error)
	GetAllEntries() ([]models.Entry, error)
	UpdateEntry(models.Entry) error
	DeleteEntry(id string) error

	// Utils
	GetConfigPath() string
}
