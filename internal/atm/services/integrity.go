package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
)

// checkLinked verifies, inside the caller's transaction, that the account
// exists, that its owner is a registered user, and that the owned-account
// link names that owner.
func checkLinked(ctx context.Context, u storage.Unit, accountID string) error {
	acc, err := u.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrAccountNotFound) {
			return fmt.Errorf("account %s vanished: %w", accountID, common.ErrIntegrity)
		}
		return err
	}

	ok, err := u.Users.Exists(ctx, acc.Owner)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("owner %q of account %s does not exist: %w", acc.Owner, accountID, common.ErrIntegrity)
	}

	linked, err := u.Users.OwnerOf(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrOwnedAccountNotFound) {
			return fmt.Errorf("account %s is not linked to any user: %w", accountID, common.ErrIntegrity)
		}
		return err
	}
	if linked != acc.Owner {
		return fmt.Errorf("account %s owned by %q but linked to %q: %w", accountID, acc.Owner, linked, common.ErrIntegrity)
	}
	return nil
}

// checkUnlinked verifies that a removed account left no link behind.
func checkUnlinked(ctx context.Context, u storage.Unit, accountID string) error {
	linked, err := u.Users.OwnerOf(ctx, accountID)
	switch {
	case errors.Is(err, common.ErrOwnedAccountNotFound):
		return nil
	case err != nil:
		return err
	default:
		return fmt.Errorf("removed account %s still linked to %q: %w", accountID, linked, common.ErrIntegrity)
	}
}

// unlink removes the owner's link to accountID. A missing link means the
// store was already inconsistent.
func unlink(ctx context.Context, u storage.Unit, owner, accountID string) error {
	err := u.Users.RemoveOwnedAccount(ctx, owner, accountID)
	if errors.Is(err, common.ErrOwnedAccountNotFound) {
		return fmt.Errorf("account %s has no link to %q: %w", accountID, owner, common.ErrIntegrity)
	}
	return err
}
