package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLen is the number of bytes bcrypt actually hashes.
const maxPasswordLen = 72

// BcryptHasher hashes account passwords with bcrypt. The salt and cost are
// embedded in every hash it produces, so Verify needs nothing else.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password. Passwords longer than 72 bytes
// are refused by bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. Any error, including a
// malformed hash, is a mismatch. Passwords longer than bcrypt's input limit
// never match: Hash refuses them, and bcrypt would otherwise ignore the tail.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if len(password) > maxPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
