package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// Claims binds a token to one identity.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTService implements ports.TokenService with HS256 tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option customises a JWTService.
type Option func(*JWTService)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(cfg Config, opts ...Option) *JWTService {
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	s := &JWTService{
		secret: secret,
		ttl:    cfg.tokenTTL(),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JWTService) Issue(identityID string) (string, error) {
	if strings.TrimSpace(identityID) == "" {
		return "", fmt.Errorf("issue token: empty identity id")
	}
	now := s.now().UTC()
	claims := Claims{
		UserID: identityID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify returns the bound identity id. Every failure collapses into domain.ErrInvalidToken.
func (s *JWTService) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.UserID == "" || claims.Subject != claims.UserID {
		return "", domain.ErrInvalidToken
	}
	return claims.UserID, nil
}
