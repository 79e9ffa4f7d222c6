package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/common"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(context.Background(), repomanager.DriverSQLite, filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	require.ErrorContains(t, err, "unsupported")
}

func TestWrite_CommitsAllOrNothing(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	user := &models.User{Name: "alice", Salt: []byte{1}, PasswordHash: []byte{2}, CreatedAt: time.Now()}
	require.NoError(t, s.Write(ctx, func(ctx context.Context, u Unit) error {
		return u.Users.Create(ctx, user)
	}))

	boom := errors.New("boom")
	err := s.Write(ctx, func(ctx context.Context, u Unit) error {
		if err := u.Accounts.Create(ctx, &models.Account{ID: "a", Owner: "alice"}); err != nil {
			return err
		}
		if err := u.Users.AddOwnedAccount(ctx, "alice", "a"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Read().Accounts.GetByID(ctx, "a")
	require.ErrorIs(t, err, common.ErrAccountNotFound)

	got, err := s.Read().Users.GetByName(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, got.OwnedAccountIDs)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")
	ctx := context.Background()

	s, err := Open(ctx, repomanager.DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, func(ctx context.Context, u Unit) error {
		return u.Users.Create(ctx, &models.User{Name: "bob", Salt: []byte{1}, PasswordHash: []byte{2}})
	}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, repomanager.DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()

	ok, err := s.Read().Users.Exists(ctx, "bob")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWrite_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no tx"))

	s := New(db, repomanager.NewSQLiteRepositoryManager())
	called := false
	err = s.Write(context.Background(), func(context.Context, Unit) error {
		called = true
		return nil
	})
	require.ErrorContains(t, err, "no tx")
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}
