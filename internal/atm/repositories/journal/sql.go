package journal

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/dbx"
)

const selectTx = `SELECT seq, id, account_id, kind, direction, amount, counter_id, actor, created_at FROM journal`

type SQLRepository struct {
	db dbx.DBTX
	ph dbx.Placeholder
}

var _ Repository = (*SQLRepository)(nil)

func NewSQLRepository(db dbx.DBTX, ph dbx.Placeholder) *SQLRepository {
	return &SQLRepository{db: db, ph: ph}
}

func (r *SQLRepository) q(query string) string { return dbx.Rebind(r.ph, query) }

// Append must run under the storage write lock, otherwise two writers
// can read the same MAX(seq).
func (r *SQLRepository) Append(ctx context.Context, t *models.Transaction) error {
	if t.Seq == 0 {
		if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM journal`).Scan(&t.Seq); err != nil {
			return fmt.Errorf("next journal seq: %w", err)
		}
	}
	_, err := r.db.ExecContext(ctx,
		r.q(`INSERT INTO journal (seq, id, account_id, kind, direction, amount, counter_id, actor, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.Seq, t.ID, t.AccountID, string(t.Kind), string(t.Direction), t.Amount, t.CounterID, t.Actor,
		dbx.UnixNano(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert journal record %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	return r.list(ctx, r.q(selectTx+` WHERE account_id = ? ORDER BY seq`), accountID)
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Transaction, error) {
	return r.list(ctx, selectTx+` ORDER BY seq`)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select journal: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			t         models.Transaction
			kind, dir string
			created   int64
		)
		if err := rows.Scan(&t.Seq, &t.ID, &t.AccountID, &kind, &dir, &t.Amount, &t.CounterID, &t.Actor, &created); err != nil {
			return nil, fmt.Errorf("scan journal record: %w", err)
		}
		t.Kind = models.TransactionKind(kind)
		t.Direction = models.Direction(dir)
		t.CreatedAt = dbx.FromUnixNano(created)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM journal`); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	return nil
}
