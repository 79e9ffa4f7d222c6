package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/accounts"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/journal"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestNew_Drivers(t *testing.T) {
	m, err := New(DriverSQLite)
	require.NoError(t, err)
	require.Equal(t, "sqlite3", m.(*SQLRepositoryManager).dialect)

	m, err = New(DriverPostgres)
	require.NoError(t, err)
	require.Equal(t, "pgx", m.(*SQLRepositoryManager).dialect)

	_, err = New("mysql")
	require.ErrorContains(t, err, "unsupported")
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	m := NewPostgresRepositoryManager()

	require.IsType(t, &users.SQLRepository{}, m.Users(db))
	require.IsType(t, &accounts.SQLRepository{}, m.Accounts(db))
	require.IsType(t, &journal.SQLRepository{}, m.Journal(db))
}

func TestRunMigrations_PassesDialect(t *testing.T) {
	db, _ := newDB(t)

	orig := migrateUp
	defer func() { migrateUp = orig }()

	var got string
	migrateUp = func(_ context.Context, _ *sql.DB, dialect string) error {
		got = dialect
		return nil
	}

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	require.Equal(t, "pgx", got)
}

func TestRunMigrations_WrapsError(t *testing.T) {
	db, _ := newDB(t)

	orig := migrateUp
	defer func() { migrateUp = orig }()

	boom := errors.New("boom")
	migrateUp = func(context.Context, *sql.DB, string) error { return boom }

	err := NewSQLiteRepositoryManager().RunMigrations(context.Background(), db)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "sqlite3")
}
