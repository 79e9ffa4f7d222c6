package users

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/dbx"
)

// SQLRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	ph dbx.Placeholder
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository returns a repository bound to db using the driver's placeholder style.
func NewSQLRepository(db dbx.DBTX, ph dbx.Placeholder) *SQLRepository {
	return &SQLRepository{db: db, ph: ph}
}

func (r *SQLRepository) q(query string) string { return dbx.Rebind(r.ph, query) }

func (r *SQLRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		r.q(`INSERT INTO users (username, salt, password_hash, created_at) VALUES (?, ?, ?, ?)`),
		u.Name, hex.EncodeToString(u.Salt), hex.EncodeToString(u.PasswordHash), dbx.UnixNano(u.CreatedAt),
	)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", u.Name, errors.Join(common.ErrDuplicateUser, err))
		}
		return fmt.Errorf("insert user %q: %w", u.Name, err)
	}
	return nil
}

func (r *SQLRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	var (
		u          models.User
		salt, hash string
		created    int64
	)
	err := r.db.QueryRowContext(ctx,
		r.q(`SELECT username, salt, password_hash, created_at FROM users WHERE username = ?`), name,
	).Scan(&u.Name, &salt, &hash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user %q: %w", name, err)
	}

	if u.Salt, err = hex.DecodeString(salt); err != nil {
		return nil, fmt.Errorf("decode salt of %q: %w", name, err)
	}
	if u.PasswordHash, err = hex.DecodeString(hash); err != nil {
		return nil, fmt.Errorf("decode password hash of %q: %w", name, err)
	}
	u.CreatedAt = dbx.FromUnixNano(created)

	if u.OwnedAccountIDs, err = r.ownedIDs(ctx, name); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLRepository) ownedIDs(ctx context.Context, name string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		r.q(`SELECT account_id FROM owned_accounts WHERE username = ? ORDER BY account_id`), name)
	if err != nil {
		return nil, fmt.Errorf("select owned accounts of %q: %w", name, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owned account: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned accounts: %w", err)
	}
	return ids, nil
}

func (r *SQLRepository) Exists(ctx context.Context, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM users WHERE username = ?`), name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count user %q: %w", name, err)
	}
	return n > 0, nil
}

func (r *SQLRepository) AddOwnedAccount(ctx context.Context, name, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		r.q(`INSERT INTO owned_accounts (account_id, username) VALUES (?, ?)`), accountID, name)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("link account %s to %q: %w", accountID, name, errors.Join(common.ErrIntegrity, err))
		}
		return fmt.Errorf("link account %s to %q: %w", accountID, name, err)
	}
	return nil
}

func (r *SQLRepository) RemoveOwnedAccount(ctx context.Context, name, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		r.q(`DELETE FROM owned_accounts WHERE account_id = ? AND username = ?`), accountID, name)
	if err != nil {
		return fmt.Errorf("unlink account %s from %q: %w", accountID, name, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrOwnedAccountNotFound
	}
	return nil
}

func (r *SQLRepository) OwnerOf(ctx context.Context, accountID string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		r.q(`SELECT username FROM owned_accounts WHERE account_id = ?`), accountID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrOwnedAccountNotFound
		}
		return "", fmt.Errorf("select owner of %s: %w", accountID, err)
	}
	return name, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	// Closed before the per-user queries: SQLite runs on a single connection.
	rows.Close()

	out := make([]models.User, 0, len(names))
	for _, n := range names {
		u, err := r.GetByName(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *SQLRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM owned_accounts`); err != nil {
		return fmt.Errorf("clear owned accounts: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}
