package cli

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/atm/services"
	"github.com/dmitrijs2005/gophbank/internal/atm/snapshot"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

type testBank struct {
	app    *App
	creds  *services.CredentialStore
	ledger *services.Ledger
}

// newTestApp builds an App over real services with alice and bob registered
// and alice logged in.
func newTestApp(t *testing.T) *testBank {
	t.Helper()
	ctx := context.Background()
	store, err := storage.Open(ctx, repomanager.DriverSQLite, filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := logging.NewNopLogger()
	creds := services.NewCredentialStore(store, log)
	for _, name := range []string{"alice", "bob"} {
		_, err := creds.CreateUser(ctx, name, []byte("pw"))
		require.NoError(t, err)
	}

	ledger := services.NewLedger(store, log, 2)
	return &testBank{
		app: &App{
			auth:         services.NewAuthenticator(creds, log, 3),
			ledger:       ledger,
			engine:       services.NewTransactionEngine(store, log),
			ownership:    services.NewOwnershipManager(store, log),
			snapshots:    services.NewSnapshotter(store, log),
			snapshotPath: filepath.Join(t.TempDir(), "bank.json"),
			session:      models.Session{User: "alice"},
			out:          io.Discard,
			log:          log,
		},
		creds:  creds,
		ledger: ledger,
	}
}

func (b *testBank) input(lines ...string) {
	b.app.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func (b *testBank) open(t *testing.T, owner string, balance int64) string {
	t.Helper()
	id, err := b.ledger.CreateAccount(context.Background(), owner, balance, nil)
	require.NoError(t, err)
	return id
}

func (b *testBank) balance(t *testing.T, id string) int64 {
	t.Helper()
	acc, err := b.ledger.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func TestCreate(t *testing.T) {
	out := captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()

	b.input("12.50", "savings", "LV", "", "note=vip", "")
	require.NoError(t, b.app.Create(ctx))
	require.Len(t, *out, 1)
	id := strings.TrimPrefix((*out)[0], "Account created: ")

	acc, err := b.ledger.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Owner)
	assert.Equal(t, int64(1250), acc.Balance)
	assert.Equal(t, []models.Metadata{
		{Name: models.MetaType, Value: "savings"},
		{Name: models.MetaCountry, Value: "LV"},
		{Name: "note", Value: "vip"},
	}, acc.Metadata)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()

	b.input("-3")
	require.ErrorIs(t, b.app.Create(ctx), common.ErrInvalidAmount)

	b.input("1", "gold")
	require.ErrorIs(t, b.app.Create(ctx), common.ErrIncorrectMetadata)

	b.input("1", "", "", "", "broken", "")
	require.ErrorIs(t, b.app.Create(ctx), common.ErrIncorrectMetadata)

	b.input("1", "savings", "", "", "type=gold", "")
	require.ErrorIs(t, b.app.Create(ctx), common.ErrIncorrectMetadata)
}

func TestUpdate_RejectsUnknownType(t *testing.T) {
	captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()
	id := b.open(t, "alice", 100)

	b.input(id, "type=gold", "")
	require.ErrorIs(t, b.app.Update(ctx), common.ErrIncorrectMetadata)

	acc, err := b.ledger.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, models.AccountType("gold"), acc.Type())
}

func TestUpdateAndCheck(t *testing.T) {
	out := captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()
	id := b.open(t, "alice", 120000)

	b.input(id, "type=savings", "phone=555", "")
	require.NoError(t, b.app.Update(ctx))

	b.input(id)
	require.NoError(t, b.app.Check(ctx))
	assert.Contains(t, *out, "Balance:   1200.00")
	assert.Contains(t, *out, "phone:     555")
	assert.Contains(t, *out, "You will get 7.00 as interest every month")

	other := b.open(t, "bob", 0)
	b.input(other)
	require.ErrorIs(t, b.app.Check(ctx), common.ErrNotOwner)
	b.input(other, "")
	require.ErrorIs(t, b.app.Update(ctx), common.ErrNotOwner)
}

func TestList(t *testing.T) {
	out := captureOutput(t)
	b := newTestApp(t)

	require.NoError(t, b.app.List(context.Background()))
	assert.Equal(t, []string{"No accounts"}, *out)

	*out = nil
	for range 3 {
		b.open(t, "alice", 100)
	}
	b.open(t, "bob", 100)
	require.NoError(t, b.app.List(context.Background()))
	assert.Len(t, *out, 3)
}

func TestTransactions(t *testing.T) {
	out := captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()
	a := b.open(t, "alice", 3000)
	c := b.open(t, "bob", 0)

	b.input("1", c, "5")
	require.NoError(t, b.app.Transaction(ctx))
	assert.Equal(t, int64(500), b.balance(t, c))

	b.input("withdraw", a, "10.01")
	require.NoError(t, b.app.Transaction(ctx))
	assert.Equal(t, int64(1999), b.balance(t, a))

	b.input("3", a, c, "50")
	require.ErrorIs(t, b.app.Transaction(ctx), common.ErrInsufficientFunds)

	b.input("3", a, c, "19.99")
	require.NoError(t, b.app.Transaction(ctx))
	assert.Equal(t, int64(0), b.balance(t, a))
	assert.Equal(t, int64(2499), b.balance(t, c))

	b.input("2", c, "1")
	require.ErrorIs(t, b.app.Transaction(ctx), common.ErrNotOwner)

	b.input("9")
	require.NoError(t, b.app.Transaction(ctx))
	assert.Contains(t, *out, "Unknown transaction: 9")
}

func TestRemove(t *testing.T) {
	captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()
	id := b.open(t, "alice", 700)

	b.input(id, "no")
	require.ErrorIs(t, b.app.Remove(ctx), errCancelled)
	assert.Equal(t, int64(700), b.balance(t, id))

	b.input(id, "YES")
	require.NoError(t, b.app.Remove(ctx))
	_, err := b.ledger.GetAccount(ctx, id)
	require.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestOwnerAndHistory(t *testing.T) {
	out := captureOutput(t)
	b := newTestApp(t)
	ctx := context.Background()
	id := b.open(t, "alice", 100)

	b.input(id)
	require.NoError(t, b.app.History(ctx))
	require.Len(t, *out, 1)
	assert.Contains(t, (*out)[0], "open")

	b.input(id, "carol")
	require.ErrorIs(t, b.app.Owner(ctx), common.ErrOwnerNotFound)

	b.input(id, "bob")
	require.NoError(t, b.app.Owner(ctx))

	u, err := b.creds.FindUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, u.OwnedAccountIDs)

	b.input(id)
	require.ErrorIs(t, b.app.History(ctx), common.ErrNotOwner)
}

func TestExport(t *testing.T) {
	captureOutput(t)
	b := newTestApp(t)
	b.open(t, "alice", 100)

	require.NoError(t, b.app.Export(context.Background()))

	snap, err := snapshot.Load(b.app.snapshotPath)
	require.NoError(t, err)
	assert.Len(t, snap.Users, 2)
	assert.Len(t, snap.Accounts, 1)
}
