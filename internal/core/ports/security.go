package ports

// PasswordHasher performs one-way salted hashing. Verify never errors; malformed
// digests simply do not match.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenService issues and verifies signed, time-bounded identity tokens.
// Verify returns domain.ErrInvalidToken for every malformed, forged or expired token.
type TokenService interface {
	Issue(identityID string) (string, error)
	Verify(token string) (string, error)
}
