// Package cryptox derives and checks password hashes for the credential
// store. Passwords are never stored; only a random salt and an argon2id
// digest of (password, salt) are kept.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the per-user random salt.
	SaltSize = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword returns the argon2id digest of password under salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword reports whether password hashes to want under salt.
// The comparison is constant-time.
func VerifyPassword(password, salt, want []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}
