// Package migrations embeds the versioned SQL schema migrations for both
// storage backends. Files are named NNN_name.sql and live under sqlite/
// and postgres/ subdirectories.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
