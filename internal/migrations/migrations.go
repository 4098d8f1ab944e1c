// AngelaMos | 2026
// migrations.go

package migrations

import "embed"

// FS holds the goose SQL migrations applied at startup.
//
//go:embed *.sql
var FS embed.FS
