// Package migrations embeds the goose SQL migrations for the sync server's
// PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
