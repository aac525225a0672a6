// Package migrations embeds the SQL schema so tests and the sqlite backend
// can bootstrap a database without the migrator binary.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
