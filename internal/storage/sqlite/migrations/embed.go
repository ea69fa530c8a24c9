package migrations

import "embed"

// FS contains embedded SQLite migrations for the world store.
//
//go:embed *.sql
var FS embed.FS
