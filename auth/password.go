// Package auth hashes and verifies account passwords.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not characters.
const MaxPasswordBytes = 72

// Hasher applies a salted, adaptive one-way hash to passwords.
// Only the output of Hash is ever stored.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns a freshly salted hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify recomputes the hash of plaintext with the salt embedded in hashed.
// A malformed or empty hash never matches.
func (h *Hasher) Verify(plaintext, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
