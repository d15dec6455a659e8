package constants

// CountType represents how entries for a challenge are logged
type CountType string

// TimeframeUnit represents how a challenge's window is derived when no
// explicit dates are set
type TimeframeUnit string

// PaceStatus classifies actual progress against the linear target-to-date
type PaceStatus string

const (
	AppName            = "tally"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tally/tally.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// LockFileSuffix is appended to the database path to guard against
	// concurrent writers
	LockFileSuffix = ".lock"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tally-"
	BackupFileSuffix = ".db"

	// Count type constants
	CountTypeSimple CountType = "simple"
	CountTypeSets   CountType = "sets"

	// Timeframe unit constants
	TimeframeYear   TimeframeUnit = "year"
	TimeframeMonth  TimeframeUnit = "month"
	TimeframeCustom TimeframeUnit = "custom"

	// Pace status constants
	PaceAhead  PaceStatus = "ahead"
	PaceOnPace PaceStatus = "onPace"
	PaceBehind PaceStatus = "behind"

	// SuggestLookbackDays is the trailing window used by the smart-default
	// entry estimator
	SuggestLookbackDays = 14

	// MilestoneCap caps the cumulative sum used by the fastest-to-milestone
	// personal record
	MilestoneCap = 1000

	// DefaultTimezone resolves "today" when settings carry no explicit zone
	DefaultTimezone = "Local"
)
