package services

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

const DefaultPageSize = 50

// Ledger holds account records.
type Ledger struct {
	store    *storage.Storage
	log      logging.Logger
	pageSize int
	now      func() time.Time
	newID    func() string
}

func NewLedger(store *storage.Storage, log logging.Logger, pageSize int) *Ledger {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Ledger{
		store:    store,
		log:      log.With("component", "ledger"),
		pageSize: pageSize,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateAccount opens an account for owner and returns its id. The account,
// the owner's link to it and the opening journal record are written together.
func (l *Ledger) CreateAccount(ctx context.Context, owner string, initialBalance int64, md []models.Metadata) (id string, err error) {
	defer logResult(ctx, l.log, "create account", &err, "owner", owner)

	if initialBalance < 0 {
		return "", common.ErrInvalidAmount
	}
	if err := models.ValidateMetadata(md); err != nil {
		return "", err
	}

	acc := models.Account{
		ID:        l.newID(),
		Owner:     owner,
		Balance:   initialBalance,
		Metadata:  md,
		CreatedAt: l.now().UTC(),
	}

	err = l.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if err := requireUser(ctx, u, owner, common.ErrOwnerNotFound); err != nil {
			return err
		}
		if err := u.Accounts.Create(ctx, &acc); err != nil {
			return err
		}
		if err := u.Users.AddOwnedAccount(ctx, owner, acc.ID); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, &models.Transaction{
			ID:        l.newID(),
			AccountID: acc.ID,
			Kind:      models.KindOpen,
			Amount:    initialBalance,
			Actor:     owner,
			CreatedAt: acc.CreatedAt,
		}); err != nil {
			return err
		}
		return checkLinked(ctx, u, acc.ID)
	})
	if err != nil {
		return "", err
	}
	return acc.ID, nil
}

func (l *Ledger) GetAccount(ctx context.Context, id string) (models.Account, error) {
	acc, err := l.store.Read().Accounts.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	return *acc, nil
}

// ListAccountsForUser yields the accounts owned by name in id order. Accounts
// are fetched a page at a time and no database connection is held while the
// caller handles a yielded account. Ranging again starts a fresh listing.
func (l *Ledger) ListAccountsForUser(ctx context.Context, name string) iter.Seq2[models.Account, error] {
	return func(yield func(models.Account, error) bool) {
		after := ""
		for {
			page, err := l.store.Read().Accounts.ListByOwner(ctx, name, after, l.pageSize)
			if err != nil {
				yield(models.Account{}, err)
				return
			}
			for _, acc := range page {
				if !yield(acc, nil) {
					return
				}
			}
			if len(page) < l.pageSize {
				return
			}
			after = page[len(page)-1].ID
		}
	}
}

// UpdateMetadata replaces the metadata of an account owned by requester.
// Balance and owner are never touched. An unknown or repeated type entry is
// rejected with ErrIncorrectMetadata.
func (l *Ledger) UpdateMetadata(ctx context.Context, id, requester string, md []models.Metadata) (err error) {
	defer logResult(ctx, l.log, "update metadata", &err, "account_id", id, "requester", requester)

	if err := models.ValidateMetadata(md); err != nil {
		return err
	}

	return l.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if _, err := ownedAccount(ctx, u, id, requester); err != nil {
			return err
		}
		if err := u.Accounts.UpdateMetadata(ctx, id, md); err != nil {
			return err
		}
		return checkLinked(ctx, u, id)
	})
}

// RemoveAccount deletes an account owned by requester together with the
// owner's link to it. Any remaining balance is recorded in the close entry.
func (l *Ledger) RemoveAccount(ctx context.Context, id, requester string) (err error) {
	defer logResult(ctx, l.log, "remove account", &err, "account_id", id, "requester", requester)

	return l.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		acc, err := ownedAccount(ctx, u, id, requester)
		if err != nil {
			return err
		}
		if err := u.Accounts.Delete(ctx, id); err != nil {
			return err
		}
		if err := unlink(ctx, u, acc.Owner, id); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, &models.Transaction{
			ID:        l.newID(),
			AccountID: id,
			Kind:      models.KindClose,
			Amount:    acc.Balance,
			Actor:     requester,
			CreatedAt: l.now().UTC(),
		}); err != nil {
			return err
		}
		return checkUnlinked(ctx, u, id)
	})
}

// History returns the journal of an account owned by requester, oldest first.
func (l *Ledger) History(ctx context.Context, id, requester string) ([]models.Transaction, error) {
	r := l.store.Read()
	if _, err := ownedAccount(ctx, r, id, requester); err != nil {
		return nil, err
	}
	return r.Journal.ListByAccount(ctx, id)
}

// ownedAccount loads id and checks that requester owns it.
func ownedAccount(ctx context.Context, u storage.Unit, id, requester string) (*models.Account, error) {
	acc, err := u.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.Owner != requester {
		return nil, common.ErrNotOwner
	}
	return acc, nil
}
