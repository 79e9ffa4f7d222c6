package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
)

// Repository describes storage operations on accounts.
type Repository interface {
	Create(ctx context.Context, acc *models.Account) error

	// GetByID returns common.ErrAccountNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// ListByOwner returns up to limit accounts of owner with id > afterID,
	// ordered by id. An empty afterID starts from the beginning.
	ListByOwner(ctx context.Context, owner, afterID string, limit int) ([]models.Account, error)

	UpdateMetadata(ctx context.Context, id string, md []models.Metadata) error
	SetOwner(ctx context.Context, id, owner string) error

	// Credit adds amount to the balance.
	Credit(ctx context.Context, id string, amount int64) error

	// Debit subtracts amount from the balance. Returns
	// common.ErrInsufficientFunds if the balance is lower than amount.
	Debit(ctx context.Context, id string, amount int64) error

	Delete(ctx context.Context, id string) error

	// List returns all accounts ordered by id.
	List(ctx context.Context) ([]models.Account, error)

	Clear(ctx context.Context) error
}
