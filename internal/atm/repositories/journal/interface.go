package journal

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
)

type Repository interface {
	// Append stores tx. A zero tx.Seq is replaced with the next sequence number.
	Append(ctx context.Context, tx *models.Transaction) error

	// ListByAccount returns the account's records, oldest first.
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)

	// List returns every record, oldest first.
	List(ctx context.Context) ([]models.Transaction, error)

	Clear(ctx context.Context) error
}
