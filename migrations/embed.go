package migrations

import "embed"

// FS holds the schema migrations for both backends, one directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
