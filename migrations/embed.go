// Package migrations embeds the SQL schema so binaries and tests migrate
// without locating files on disk.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
