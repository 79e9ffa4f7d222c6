// Package migrations embeds the goose schema migrations. The SQL sticks to
// TEXT and BIGINT columns so the same files run on SQLite and PostgreSQL.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

// Up applies every pending migration to db. dialect is a goose dialect name
// such as "sqlite3" or "pgx".
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
