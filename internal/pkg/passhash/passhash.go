// Package passhash derives and verifies salted, iterated password hashes.
// Every account gets its own random salt; a shared global salt would let an
// attacker amortize one dictionary pass across all accounts.
package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltLength        = 16
	DefaultIterations = 120000
	keyLength         = 32
)

// NewSalt returns a fresh random per-account salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Hash derives a PBKDF2-SHA256 key from the password with the given salt and
// iteration count.
func Hash(password string, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
}

// Verify re-derives the hash and compares it in constant time.
func Verify(password string, salt []byte, iterations int, expected []byte) bool {
	derived := Hash(password, salt, iterations)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
