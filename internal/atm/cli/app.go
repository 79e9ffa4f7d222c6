package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/dmitrijs2005/gophbank/internal/atm/config"
	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/services"
	"github.com/dmitrijs2005/gophbank/internal/atm/snapshot"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

type authService interface {
	Login(ctx context.Context, name string, password []byte) (models.Session, error)
	Register(ctx context.Context, name string, password []byte) (models.Session, error)
	Attempts() int
	MaxAttempts() int
}

type ledgerService interface {
	CreateAccount(ctx context.Context, owner string, initialBalance int64, md []models.Metadata) (string, error)
	GetAccount(ctx context.Context, id string) (models.Account, error)
	ListAccountsForUser(ctx context.Context, name string) iter.Seq2[models.Account, error]
	UpdateMetadata(ctx context.Context, id, requester string, md []models.Metadata) error
	RemoveAccount(ctx context.Context, id, requester string) error
	History(ctx context.Context, id, requester string) ([]models.Transaction, error)
}

type engineService interface {
	Deposit(ctx context.Context, accountID string, amount int64) (models.Account, error)
	Withdraw(ctx context.Context, accountID string, amount int64, requester string) (models.Account, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64, requester string) error
}

type ownershipService interface {
	TransferOwnership(ctx context.Context, accountID, from, to string) error
}

type snapshotService interface {
	Export(ctx context.Context) (snapshot.Snapshot, error)
	Import(ctx context.Context, snap snapshot.Snapshot) error
}

// saveSnapshot is a test seam for snapshot.Save.
var saveSnapshot = snapshot.Save

type App struct {
	auth      authService
	ledger    ledgerService
	engine    engineService
	ownership ownershipService
	snapshots snapshotService

	snapshotPath string
	session      models.Session
	reader       *bufio.Reader
	out          io.Writer
	log          logging.Logger
	closer       io.Closer
}

// NewApp opens storage, restores cfg.RestorePath if set, and builds the services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg.StorageDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	creds := services.NewCredentialStore(store, log)
	a := &App{
		auth:         services.NewAuthenticator(creds, log, cfg.MaxLoginAttempts),
		ledger:       services.NewLedger(store, log, cfg.ListPageSize),
		engine:       services.NewTransactionEngine(store, log),
		ownership:    services.NewOwnershipManager(store, log),
		snapshots:    services.NewSnapshotter(store, log),
		snapshotPath: cfg.SnapshotPath,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		log:          log,
		closer:       store,
	}

	if cfg.RestorePath != "" {
		if err := a.restore(ctx, cfg.RestorePath); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) restore(ctx context.Context, path string) error {
	snap, err := snapshot.Load(path)
	if err != nil {
		return err
	}
	if err := a.snapshots.Import(ctx, snap); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	a.log.Info(ctx, "snapshot restored", "path", path)
	return nil
}

// Run shows the init menu and, once the operator is authenticated, the main
// menu. It returns when the operator exits or the login is locked.
func (a *App) Run(ctx context.Context) error {
	if err := a.authenticate(ctx); err != nil {
		if errors.Is(err, errExit) {
			printlnFn("Bye!")
			return nil
		}
		return err
	}
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) status() string {
	return a.session.User
}

// prompt reads one trimmed line.
func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// promptAmount reads an amount in major units, e.g. "12.34".
func (a *App) promptAmount(text string) (int64, error) {
	s, err := a.prompt(text)
	if err != nil {
		return 0, err
	}
	return models.ParseAmount(s)
}
