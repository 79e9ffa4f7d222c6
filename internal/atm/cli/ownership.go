package cli

import (
	"context"
	"fmt"
)

// Owner hands one of the operator's accounts to another registered user.
func (a *App) Owner(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	to, err := a.prompt("New owner")
	if err != nil {
		return err
	}
	if err := a.ownership.TransferOwnership(ctx, id, a.session.User, to); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Account %s now belongs to %s", id, to))
	return nil
}

// Export writes a snapshot of the whole bank to the configured path.
func (a *App) Export(ctx context.Context) error {
	snap, err := a.snapshots.Export(ctx)
	if err != nil {
		return err
	}
	if err := saveSnapshot(a.snapshotPath, snap); err != nil {
		return err
	}
	printlnFn("Snapshot written to", a.snapshotPath)
	return nil
}
