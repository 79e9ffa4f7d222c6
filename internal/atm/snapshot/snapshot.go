// Package snapshot stores a complete copy of the bank (users, accounts and
// the journal) as a single JSON document.
//
// Save creates the destination directory if needed, writes to a temporary
// file there and renames it
// over the target, so an interrupted write never leaves a truncated snapshot.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/filex"
)

// Version is the current document format.
const Version = 1

type Meta struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

type Snapshot struct {
	Meta     Meta                 `json:"meta"`
	Users    []models.User        `json:"users"`
	Accounts []models.Account     `json:"accounts"`
	Journal  []models.Transaction `json:"journal"`
}

// Load reads the snapshot at path.
func Load(path string) (Snapshot, error) {
	var s Snapshot

	f, err := os.Open(path)
	if err != nil {
		return s, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return s, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if s.Meta.Version != Version {
		return s, fmt.Errorf("unsupported snapshot version %d", s.Meta.Version)
	}
	return s, nil
}

// Save writes s to path atomically. Meta.Version is always set to Version;
// a zero Meta.CreatedAt is filled with the current time.
func Save(path string, s Snapshot) (err error) {
	s.Meta.Version = Version
	if s.Meta.CreatedAt.IsZero() {
		s.Meta.CreatedAt = time.Now().UTC()
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
