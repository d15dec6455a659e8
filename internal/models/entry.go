package models

import "time"

// Entry is one logged observation of progress on a specific date.
//
// Count is authoritative for totals. Sets, when present, should sum to
// Count; the UI enforces that at write time but consumers must not rely
// on it and use Sets only for set-specific statistics. Multiple entries
// may share the same date for one challenge.
type Entry struct {
	ID          string     `json:"id"`
	ChallengeID string     `json:"challenge_id"`
	Day         string     `json:"day"` // YYYY-MM-DD, local calendar day
	Count       int        `json:"count"`
	Sets        []int      `json:"sets,omitempty"` // reps per set
	Note        string     `json:"note,omitempty"`
	Feeling     string     `json:"feeling,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
