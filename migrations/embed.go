// Package migrations embeds the catalog schema.
package migrations

import "embed"

// FS holds the .sql files, applied in name order.
//
//go:embed *.sql
var FS embed.FS
