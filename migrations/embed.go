// Package migrations embeds the SQL schema so binaries carry their own migrations.
package migrations

import "embed"

// FS holds the NNNNNN_name.{up,down}.sql pairs
//
//go:embed *.sql
var FS embed.FS
