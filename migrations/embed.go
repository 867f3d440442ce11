// Package migrations embute os arquivos SQL do goose no binário cmd/migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
