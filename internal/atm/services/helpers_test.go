package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

type bank struct {
	store     *storage.Storage
	creds     *CredentialStore
	ledger    *Ledger
	auth      *Authenticator
	engine    *TransactionEngine
	ownership *OwnershipManager
	snap      *Snapshotter
}

func newBank(t *testing.T, pageSize int) *bank {
	t.Helper()
	store, err := storage.Open(context.Background(), repomanager.DriverSQLite, filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := logging.NewNopLogger()
	creds := NewCredentialStore(store, log)
	return &bank{
		store:     store,
		creds:     creds,
		ledger:    NewLedger(store, log, pageSize),
		auth:      NewAuthenticator(creds, log, 3),
		engine:    NewTransactionEngine(store, log),
		ownership: NewOwnershipManager(store, log),
		snap:      NewSnapshotter(store, log),
	}
}

func (b *bank) user(t *testing.T, name string) {
	t.Helper()
	_, err := b.creds.CreateUser(context.Background(), name, []byte("pw-"+name))
	require.NoError(t, err)
}

func (b *bank) account(t *testing.T, owner string, balance int64) string {
	t.Helper()
	id, err := b.ledger.CreateAccount(context.Background(), owner, balance, []models.Metadata{{Name: models.MetaType, Value: "current"}})
	require.NoError(t, err)
	return id
}

func (b *bank) balance(t *testing.T, id string) int64 {
	t.Helper()
	acc, err := b.ledger.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func (b *bank) owned(t *testing.T, name string) []string {
	t.Helper()
	u, err := b.creds.FindUser(context.Background(), name)
	require.NoError(t, err)
	return u.OwnedAccountIDs
}
