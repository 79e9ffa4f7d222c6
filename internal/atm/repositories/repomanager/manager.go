// Package repomanager builds driver-specific repositories and runs schema
// migrations. One manager serves both the sqlite and pgx drivers; they
// differ only in goose dialect and bind-parameter style.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/atm/migrations"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/accounts"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/journal"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/users"
	"github.com/dmitrijs2005/gophbank/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Journal(db dbx.DBTX) journal.Repository
}

// overridden in tests
var migrateUp = migrations.Up

type SQLRepositoryManager struct {
	dialect string
	ph      dbx.Placeholder
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.ph)
}

func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(db, m.ph)
}

func (m *SQLRepositoryManager) Journal(db dbx.DBTX) journal.Repository {
	return journal.NewSQLRepository(db, m.ph)
}

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := migrateUp(ctx, db, m.dialect); err != nil {
		return fmt.Errorf("run %s migrations: %w", m.dialect, err)
	}
	return nil
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLRepositoryManager{dialect: "sqlite3", ph: dbx.Question}
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &SQLRepositoryManager{dialect: "pgx", ph: dbx.Dollar}
}

// New returns the manager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	case DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
