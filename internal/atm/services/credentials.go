package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/cryptox"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

// CredentialStore holds user records. Passwords are kept only as a salted
// argon2id hash.
type CredentialStore struct {
	store *storage.Storage
	log   logging.Logger
	now   func() time.Time
}

func NewCredentialStore(store *storage.Storage, log logging.Logger) *CredentialStore {
	return &CredentialStore{store: store, log: log.With("component", "credentials"), now: time.Now}
}

// CreateUser registers name with an empty owned-account set.
func (c *CredentialStore) CreateUser(ctx context.Context, name string, password []byte) (user models.User, err error) {
	defer logResult(ctx, c.log, "create user", &err, "user", name)

	if strings.TrimSpace(name) == "" || name != strings.TrimSpace(name) {
		return models.User{}, common.ErrInvalidUserName
	}

	salt := cryptox.NewSalt()
	user = models.User{
		Name:            name,
		Salt:            salt,
		PasswordHash:    cryptox.HashPassword(password, salt),
		OwnedAccountIDs: []string{},
		CreatedAt:       c.now().UTC(),
	}

	err = c.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		return u.Users.Create(ctx, &user)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *CredentialStore) FindUser(ctx context.Context, name string) (models.User, error) {
	u, err := c.store.Read().Users.GetByName(ctx, name)
	if err != nil {
		return models.User{}, err
	}
	return *u, nil
}

// VerifyPassword reports whether password matches the stored hash of name.
func (c *CredentialStore) VerifyPassword(ctx context.Context, name string, password []byte) (bool, error) {
	u, err := c.FindUser(ctx, name)
	if err != nil {
		return false, err
	}
	return cryptox.VerifyPassword(password, u.Salt, u.PasswordHash), nil
}

func (c *CredentialStore) AddOwnedAccount(ctx context.Context, name, accountID string) (err error) {
	defer logResult(ctx, c.log, "add owned account", &err, "user", name, "account_id", accountID)

	return c.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if err := requireUser(ctx, u, name, common.ErrUserNotFound); err != nil {
			return err
		}
		return u.Users.AddOwnedAccount(ctx, name, accountID)
	})
}

func (c *CredentialStore) RemoveOwnedAccount(ctx context.Context, name, accountID string) (err error) {
	defer logResult(ctx, c.log, "remove owned account", &err, "user", name, "account_id", accountID)

	return c.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if err := requireUser(ctx, u, name, common.ErrUserNotFound); err != nil {
			return err
		}
		return u.Users.RemoveOwnedAccount(ctx, name, accountID)
	})
}

// requireUser returns notFound if name is not registered.
func requireUser(ctx context.Context, u storage.Unit, name string, notFound error) error {
	ok, err := u.Users.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}
