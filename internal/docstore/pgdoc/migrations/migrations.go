// Package migrations embeds the goose migrations for the JSONB document table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
