package migration

import "embed"

// Scripts holds the versioned schema. The goose and golang-migrate sets
// describe the same tables in each tool's file layout.
//
//go:embed scripts/goose/*.sql scripts/migrate/*.sql
var Scripts embed.FS

const (
	GooseDir   = "scripts/goose"
	MigrateDir = "scripts/migrate"
)
