// Package storage owns the database handle and defines the transaction
// boundary used by every mutating service call.
//
// Write serializes writers behind a process-level mutex and runs the callback
// inside a single database transaction: the callback's repositories are bound
// to that transaction, it commits when the callback returns nil, and rolls
// back on error or panic. Read hands out repositories bound to the pool.
//
// Inside a Write callback use only the Unit passed in. With SQLite the pool
// has exactly one connection, so a Read issued from within Write would wait
// for the transaction to finish.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/accounts"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/journal"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/users"
	"github.com/dmitrijs2005/gophbank/internal/dbx"
)

const sqliteBusyTimeoutMS = 5000

// Unit is the set of repositories bound to one DBTX.
type Unit struct {
	Users    users.Repository
	Accounts accounts.Repository
	Journal  journal.Repository
}

type Storage struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	writeLock sync.Mutex
}

// New wraps an already opened and migrated database.
func New(db *sql.DB, repos repomanager.RepositoryManager) *Storage {
	return &Storage{db: db, repos: repos}
}

// Open connects to dsn with the named driver and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*Storage, error) {
	repos, err := repomanager.New(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == repomanager.DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteBusyTimeoutMS)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, repos), nil
}

func (s *Storage) unit(db dbx.DBTX) Unit {
	return Unit{
		Users:    s.repos.Users(db),
		Accounts: s.repos.Accounts(db),
		Journal:  s.repos.Journal(db),
	}
}

// Read returns repositories that run outside any transaction.
func (s *Storage) Read() Unit {
	return s.unit(s.db)
}

// Write runs fn as one transaction under the write lock.
func (s *Storage) Write(ctx context.Context, fn func(ctx context.Context, u Unit) error) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.unit(tx))
	})
}

func (s *Storage) Close() error {
	return s.db.Close()
}
