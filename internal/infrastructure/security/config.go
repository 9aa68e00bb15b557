// Package security holds the cryptographic primitives of the identity core:
// bcrypt password hashing and HS256 identity tokens. Both are configured once at
// startup through an immutable Config and hold no other state.
package security

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL   = 24 * time.Hour
	DefaultBcryptCost = 12
	minSecretLength   = 16
)

// Config is the process-wide security configuration. Values are copied into the
// services at construction, so later mutation of a Config has no effect on them.
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
	Issuer     string
}

// Validate rejects configurations that would weaken the core.
func (c Config) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("security: signing secret must be at least %d bytes", minSecretLength)
	}
	if c.TokenTTL < 0 {
		return errors.New("security: token ttl must be positive")
	}
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("security: bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func (c Config) tokenTTL() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c Config) bcryptCost() int {
	if c.BcryptCost == 0 {
		return DefaultBcryptCost
	}
	return c.BcryptCost
}
