// Package migrations embeds the SQL schema so the server can migrate without
// shipping the directory next to the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
