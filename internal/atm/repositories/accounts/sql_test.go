package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophbank/internal/atm/migrations"
	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/dbx"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db, "sqlite3"))
	return db
}

func account(id, owner string, balance int64) *models.Account {
	return &models.Account{
		ID:        id,
		Owner:     owner,
		Balance:   balance,
		Metadata:  []models.Metadata{{Name: models.MetaType, Value: "savings"}},
		CreatedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestCreateAndGetByID(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.Question)
	ctx := context.Background()

	want := account("a1", "alice", 500)
	require.NoError(t, r.Create(ctx, want))

	got, err := r.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = r.GetByID(ctx, "nope")
	require.ErrorIs(t, err, common.ErrAccountNotFound)

	err = r.Create(ctx, account("a1", "bob", 0))
	require.ErrorIs(t, err, common.ErrIntegrity)
}

func TestCreate_NilMetadataStoredAsEmpty(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.Question)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Account{ID: "x", Owner: "alice"}))
	got, err := r.GetByID(ctx, "x")
	require.NoError(t, err)
	require.Empty(t, got.Metadata)
}

func TestListByOwner_Pages(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.Question)
	ctx := context.Background()
	for i := range 5 {
		require.NoError(t, r.Create(ctx, account(fmt.Sprintf("a%d", i), "alice", 0)))
	}
	require.NoError(t, r.Create(ctx, account("b0", "bob", 0)))

	page, err := r.ListByOwner(ctx, "alice", "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a0", page[0].ID)
	assert.Equal(t, "a1", page[1].ID)

	page, err = r.ListByOwner(ctx, "alice", "a3", 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a4", page[0].ID)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
}

func TestCreditDebit(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.Question)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, account("a", "alice", 100)))

	require.NoError(t, r.Credit(ctx, "a", 50))
	require.NoError(t, r.Debit(ctx, "a", 150))

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Balance)

	require.ErrorIs(t, r.Debit(ctx, "a", 1), common.ErrInsufficientFunds)
	require.ErrorIs(t, r.Debit(ctx, "ghost", 1), common.ErrAccountNotFound)
	require.ErrorIs(t, r.Credit(ctx, "ghost", 1), common.ErrAccountNotFound)
}

func TestUpdateMetadataSetOwnerDelete(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.Question)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, account("a", "alice", 0)))

	md := []models.Metadata{{Name: models.MetaCountry, Value: "LV"}}
	require.NoError(t, r.UpdateMetadata(ctx, "a", md))
	require.NoError(t, r.SetOwner(ctx, "a", "bob"))

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, md, got.Metadata)
	require.Equal(t, "bob", got.Owner)

	require.NoError(t, r.Delete(ctx, "a"))
	require.ErrorIs(t, r.Delete(ctx, "a"), common.ErrAccountNotFound)
	require.ErrorIs(t, r.SetOwner(ctx, "a", "x"), common.ErrAccountNotFound)
	require.ErrorIs(t, r.UpdateMetadata(ctx, "a", nil), common.ErrAccountNotFound)
}

func TestClear(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.Question)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, account("a", "alice", 0)))
	require.NoError(t, r.Clear(ctx))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestDebit_DollarPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts SET balance = balance - \$1 WHERE id = \$2 AND balance >= \$3`).
		WithArgs(int64(10), "a", int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewSQLRepository(db, dbx.Dollar)
	require.NoError(t, r.Debit(context.Background(), "a", 10))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, owner, balance, metadata, created_at FROM accounts WHERE owner = \$1`).
		WillReturnError(errors.New("db down"))

	r := NewSQLRepository(db, dbx.Dollar)
	_, err = r.ListByOwner(context.Background(), "alice", "", 10)
	require.ErrorContains(t, err, "db down")
	require.NoError(t, mock.ExpectationsWereMet())
}
