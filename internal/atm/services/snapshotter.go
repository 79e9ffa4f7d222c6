package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/atm/snapshot"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

// Snapshotter copies the whole store to and from a snapshot.Snapshot.
type Snapshotter struct {
	store *storage.Storage
	log   logging.Logger
}

func NewSnapshotter(store *storage.Storage, log logging.Logger) *Snapshotter {
	return &Snapshotter{store: store, log: log.With("component", "snapshot")}
}

// Export reads users by name, accounts by id and the journal by sequence
// inside one transaction, so the copy is consistent.
func (s *Snapshotter) Export(ctx context.Context) (snap snapshot.Snapshot, err error) {
	defer logResult(ctx, s.log, "export", &err)

	err = s.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		var err error
		if snap.Users, err = u.Users.List(ctx); err != nil {
			return err
		}
		if snap.Accounts, err = u.Accounts.List(ctx); err != nil {
			return err
		}
		snap.Journal, err = u.Journal.List(ctx)
		return err
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	snap.Meta.Version = snapshot.Version
	return snap, nil
}

// Import replaces the whole store with snap. The snapshot is validated
// first; on any error the store is left as it was.
func (s *Snapshotter) Import(ctx context.Context, snap snapshot.Snapshot) (err error) {
	defer logResult(ctx, s.log, "import", &err,
		"users", len(snap.Users), "accounts", len(snap.Accounts), "journal", len(snap.Journal))

	if err := Validate(snap); err != nil {
		return err
	}

	return s.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if err := u.Journal.Clear(ctx); err != nil {
			return err
		}
		if err := u.Accounts.Clear(ctx); err != nil {
			return err
		}
		if err := u.Users.Clear(ctx); err != nil {
			return err
		}

		for i := range snap.Users {
			usr := &snap.Users[i]
			if err := u.Users.Create(ctx, usr); err != nil {
				return err
			}
			for _, id := range usr.OwnedAccountIDs {
				if err := u.Users.AddOwnedAccount(ctx, usr.Name, id); err != nil {
					return err
				}
			}
		}
		for i := range snap.Accounts {
			if err := u.Accounts.Create(ctx, &snap.Accounts[i]); err != nil {
				return err
			}
		}
		for i := range snap.Journal {
			// explicit seq is preserved
			if err := u.Journal.Append(ctx, &snap.Journal[i]); err != nil {
				return err
			}
		}
		for _, acc := range snap.Accounts {
			if err := checkLinked(ctx, u, acc.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Validate checks the referential integrity of snap without touching storage.
func Validate(snap snapshot.Snapshot) error {
	owners := make(map[string]string, len(snap.Accounts))
	for _, acc := range snap.Accounts {
		if acc.ID == "" {
			return fmt.Errorf("account with empty id: %w", common.ErrIntegrity)
		}
		if _, dup := owners[acc.ID]; dup {
			return fmt.Errorf("duplicate account %s: %w", acc.ID, common.ErrIntegrity)
		}
		if acc.Balance < 0 {
			return fmt.Errorf("account %s has negative balance: %w", acc.ID, common.ErrIntegrity)
		}
		owners[acc.ID] = acc.Owner
	}

	users := make(map[string]struct{}, len(snap.Users))
	linked := make(map[string]string, len(snap.Accounts))
	for _, usr := range snap.Users {
		if usr.Name == "" {
			return fmt.Errorf("user with empty name: %w", common.ErrIntegrity)
		}
		if _, dup := users[usr.Name]; dup {
			return fmt.Errorf("duplicate user %q: %w", usr.Name, common.ErrIntegrity)
		}
		users[usr.Name] = struct{}{}

		for _, id := range usr.OwnedAccountIDs {
			owner, ok := owners[id]
			if !ok {
				return fmt.Errorf("user %q owns unknown account %s: %w", usr.Name, id, common.ErrIntegrity)
			}
			if owner != usr.Name {
				return fmt.Errorf("user %q lists account %s owned by %q: %w", usr.Name, id, owner, common.ErrIntegrity)
			}
			if prev, dup := linked[id]; dup {
				return fmt.Errorf("account %s linked to %q and %q: %w", id, prev, usr.Name, common.ErrIntegrity)
			}
			linked[id] = usr.Name
		}
	}

	for id, owner := range owners {
		if _, ok := users[owner]; !ok {
			return fmt.Errorf("account %s owner %q does not exist: %w", id, owner, common.ErrIntegrity)
		}
		if _, ok := linked[id]; !ok {
			return fmt.Errorf("account %s is not in its owner's set: %w", id, common.ErrIntegrity)
		}
	}

	seqs := make(map[int64]struct{}, len(snap.Journal))
	ids := make(map[string]struct{}, len(snap.Journal))
	for _, tx := range snap.Journal {
		if tx.Seq <= 0 {
			return fmt.Errorf("journal record %s has no sequence: %w", tx.ID, common.ErrIntegrity)
		}
		if _, dup := seqs[tx.Seq]; dup {
			return fmt.Errorf("duplicate journal sequence %d: %w", tx.Seq, common.ErrIntegrity)
		}
		if _, dup := ids[tx.ID]; dup {
			return fmt.Errorf("duplicate journal record %s: %w", tx.ID, common.ErrIntegrity)
		}
		seqs[tx.Seq] = struct{}{}
		ids[tx.ID] = struct{}{}
	}
	return nil
}
