// Package migrations embeds the PostgreSQL schema so every binary and test runs the same files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
