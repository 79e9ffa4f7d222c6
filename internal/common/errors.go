// Package common holds the sentinel errors and small helpers shared by the
// GophBank core and its console front end. Callers should match errors with
// errors.Is; services wrap infrastructure failures with %w.
package common

import (
	"errors"
	"fmt"
)

var (
	// Credential store errors.
	ErrDuplicateUser        = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidUserName      = errors.New("invalid user name")
	ErrOwnedAccountNotFound = errors.New("account is not owned by user")

	// Authentication errors.
	ErrAuthenticationFailed = errors.New("wrong password or username")
	ErrTooManyAttempts      = fmt.Errorf("too many failed login attempts: %w", ErrAuthenticationFailed)
	ErrAlreadyAuthenticated = errors.New("session already authenticated")

	// Ledger errors.
	ErrAccountNotFound = errors.New("account not found")
	ErrOwnerNotFound   = errors.New("owner not found")
	ErrNotOwner        = errors.New("requester does not own the account")
	ErrSameOwner       = errors.New("account already belongs to user")

	// Transaction errors.
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("source and destination accounts are the same")

	// ErrIntegrity reports a broken link between a user and an account.
	ErrIntegrity = errors.New("referential integrity violation")

	ErrIncorrectMetadata = errors.New("incorrect metadata")
)
