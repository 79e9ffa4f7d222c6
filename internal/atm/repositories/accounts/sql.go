package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/dbx"
)

const selectAccount = `SELECT id, owner, balance, metadata, created_at FROM accounts`

type SQLRepository struct {
	db dbx.DBTX
	ph dbx.Placeholder
}

var _ Repository = (*SQLRepository)(nil)

func NewSQLRepository(db dbx.DBTX, ph dbx.Placeholder) *SQLRepository {
	return &SQLRepository{db: db, ph: ph}
}

func (r *SQLRepository) q(query string) string { return dbx.Rebind(r.ph, query) }

func encodeMetadata(md []models.Metadata) (string, error) {
	if md == nil {
		md = []models.Metadata{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (models.Account, error) {
	var (
		a       models.Account
		md      string
		created int64
	)
	if err := s.Scan(&a.ID, &a.Owner, &a.Balance, &md, &created); err != nil {
		return a, err
	}
	if err := json.Unmarshal([]byte(md), &a.Metadata); err != nil {
		return a, fmt.Errorf("decode metadata of %s: %w", a.ID, err)
	}
	a.CreatedAt = dbx.FromUnixNano(created)
	return a, nil
}

func (r *SQLRepository) Create(ctx context.Context, a *models.Account) error {
	md, err := encodeMetadata(a.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		r.q(`INSERT INTO accounts (id, owner, balance, metadata, created_at) VALUES (?, ?, ?, ?, ?)`),
		a.ID, a.Owner, a.Balance, md, dbx.UnixNano(a.CreatedAt),
	)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("insert account %s: %w", a.ID, errors.Join(common.ErrIntegrity, err))
		}
		return fmt.Errorf("insert account %s: %w", a.ID, err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, r.q(selectAccount+` WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select account %s: %w", id, err)
	}
	return &a, nil
}

func (r *SQLRepository) ListByOwner(ctx context.Context, owner, afterID string, limit int) ([]models.Account, error) {
	return r.list(ctx,
		r.q(selectAccount+` WHERE owner = ? AND id > ? ORDER BY id LIMIT ?`), owner, afterID, limit)
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Account, error) {
	return r.list(ctx, selectAccount+` ORDER BY id`)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

// execOne runs a single-row update and maps zero affected rows to ErrAccountNotFound.
func (r *SQLRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}

func (r *SQLRepository) UpdateMetadata(ctx context.Context, id string, md []models.Metadata) error {
	enc, err := encodeMetadata(md)
	if err != nil {
		return err
	}
	return r.execOne(ctx, "update metadata", `UPDATE accounts SET metadata = ? WHERE id = ?`, enc, id)
}

func (r *SQLRepository) SetOwner(ctx context.Context, id, owner string) error {
	return r.execOne(ctx, "update owner", `UPDATE accounts SET owner = ? WHERE id = ?`, owner, id)
}

func (r *SQLRepository) Credit(ctx context.Context, id string, amount int64) error {
	return r.execOne(ctx, "credit", `UPDATE accounts SET balance = balance + ? WHERE id = ?`, amount, id)
}

func (r *SQLRepository) Debit(ctx context.Context, id string, amount int64) error {
	err := r.execOne(ctx, "debit",
		`UPDATE accounts SET balance = balance - ? WHERE id = ? AND balance >= ?`, amount, id, amount)
	if !errors.Is(err, common.ErrAccountNotFound) {
		return err
	}
	// the row may exist with too small a balance
	if _, gerr := r.GetByID(ctx, id); gerr != nil {
		return gerr
	}
	return common.ErrInsufficientFunds
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete account", `DELETE FROM accounts WHERE id = ?`, id)
}

func (r *SQLRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	return nil
}
