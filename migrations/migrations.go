// Package migrations embeds the SQL schema migrations so a deployed binary
// can bring its database up to date without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
