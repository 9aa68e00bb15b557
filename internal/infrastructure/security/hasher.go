package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements ports.PasswordHasher. The digest embeds salt and cost,
// so digests produced under an older cost keep verifying after the cost changes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cfg Config) *BcryptHasher {
	return &BcryptHasher{cost: cfg.bcryptCost()}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares in constant time and reports false for malformed digests.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
