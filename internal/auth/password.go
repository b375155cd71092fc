package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor used for all password hashes.
const HashCost = 10

// PasswordHasher hashes and verifies account passwords with bcrypt. The
// per-call salt is embedded in the hash output, so verification needs no
// separate salt storage.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the standard cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: HashCost}
}

// Hash generates a salted bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether password matches hash. A plain mismatch returns
// (false, nil); a malformed hash or other bcrypt failure returns the error
// so callers can log it, though both outcomes mean "not authenticated".
// The comparison itself is bcrypt's constant-time check.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
