// Package migrations embeds the goose migrations of the SQLite backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
