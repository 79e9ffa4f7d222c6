package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

type OwnershipManager struct {
	store *storage.Storage
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewOwnershipManager(store *storage.Storage, log logging.Logger) *OwnershipManager {
	return &OwnershipManager{
		store: store,
		log:   log.With("component", "ownership"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// TransferOwnership hands accountID from one user to another. The owner
// field and both users' owned sets change in the same transaction.
func (o *OwnershipManager) TransferOwnership(ctx context.Context, accountID, from, to string) (err error) {
	defer logResult(ctx, o.log, "transfer ownership", &err, "account_id", accountID, "from", from, "to", to)

	return o.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if _, err := ownedAccount(ctx, u, accountID, from); err != nil {
			return err
		}
		if err := requireUser(ctx, u, to, common.ErrOwnerNotFound); err != nil {
			return err
		}
		if from == to {
			return common.ErrSameOwner
		}

		if err := u.Accounts.SetOwner(ctx, accountID, to); err != nil {
			return err
		}
		if err := unlink(ctx, u, from, accountID); err != nil {
			return err
		}
		if err := u.Users.AddOwnedAccount(ctx, to, accountID); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, &models.Transaction{
			ID:        o.newID(),
			AccountID: accountID,
			Kind:      models.KindOwnership,
			CounterID: to,
			Actor:     from,
			CreatedAt: o.now().UTC(),
		}); err != nil {
			return err
		}
		return checkLinked(ctx, u, accountID)
	})
}
