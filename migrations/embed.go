// Package migrations embeds the SQL schema migrations applied by faqd.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
