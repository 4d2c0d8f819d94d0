// Package migrations embebe el esquema SQL del ledger para golang-migrate.
package migrations

import "embed"

// FS archivos NNNNNN_nombre.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
