// Package migrations holds the goose schema migrations for the document
// hierarchy tables. Table names carry an environment prefix, so the
// migrations are registered Go migrations rather than static SQL files.
package migrations

import "embed"

//go:embed *.go
var Migrations embed.FS

var tablePrefix string

// SetTablePrefix sets the table name prefix used by all migrations.
// Must be called before goose runs.
func SetTablePrefix(prefix string) {
	tablePrefix = prefix
}
