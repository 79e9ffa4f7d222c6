package models

import (
	"slices"
	"time"
)

// User is a registered operator. PasswordHash is the argon2id digest of the
// password under Salt; the password itself is never stored.
type User struct {
	Name            string    `json:"name"`
	Salt            []byte    `json:"salt"`
	PasswordHash    []byte    `json:"password_hash"`
	OwnedAccountIDs []string  `json:"owned_account_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

// Owns reports whether accountID is in the user's owned set.
func (u User) Owns(accountID string) bool {
	return slices.Contains(u.OwnedAccountIDs, accountID)
}

// Session is the authenticated context of the single operator of a run.
type Session struct {
	User      string
	StartedAt time.Time
}
