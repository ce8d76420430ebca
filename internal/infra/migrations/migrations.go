package migrations

import "embed"

// FS embeds the SQL migration files applied by cmd/migrate.
//
//go:embed *.sql
var FS embed.FS
