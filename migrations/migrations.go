// Package migrations embeds the SQL applied by cmd/migrate when documents are
// kept in Postgres.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
