package users

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
)

// Repository describes storage operations on users and their owned-account sets.
type Repository interface {
	// Create inserts a user. Returns common.ErrDuplicateUser if the name is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByName returns the user together with its owned account ids.
	// Returns common.ErrUserNotFound if absent.
	GetByName(ctx context.Context, name string) (*models.User, error)

	// Exists reports whether a user called name is registered.
	Exists(ctx context.Context, name string) (bool, error)

	// AddOwnedAccount links accountID to name.
	AddOwnedAccount(ctx context.Context, name, accountID string) error

	// RemoveOwnedAccount unlinks accountID from name.
	// Returns common.ErrOwnedAccountNotFound if the link does not exist.
	RemoveOwnedAccount(ctx context.Context, name, accountID string) error

	// OwnerOf returns the user linked to accountID.
	// Returns common.ErrOwnedAccountNotFound if no user is linked.
	OwnerOf(ctx context.Context, accountID string) (string, error)

	// List returns all users ordered by name.
	List(ctx context.Context) ([]models.User, error)

	// Clear removes every user and link.
	Clear(ctx context.Context) error
}
