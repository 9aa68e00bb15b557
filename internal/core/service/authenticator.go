package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// Authenticator is the authentication gate: raw token in, live identity out.
type Authenticator struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthenticator(repo ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *Authenticator {
	return &Authenticator{repo: repo, tokens: tokens, log: log}
}

// Resolve returns the identity bound to rawToken with its password hash stripped.
// Malformed, forged, expired and orphaned tokens all fail with the same InvalidToken
// reason. Store faults are returned wrapped and are never treated as success.
func (a *Authenticator) Resolve(ctx context.Context, rawToken string) (*domain.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, &domain.AuthError{Reason: domain.ReasonMissingCredential}
	}

	userID, err := a.tokens.Verify(rawToken)
	if err != nil {
		return nil, &domain.AuthError{Reason: domain.ReasonInvalidToken}
	}

	user, err := a.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.log.Debug().Str("user_id", userID).Msg("token bound to unknown identity")
			return nil, &domain.AuthError{Reason: domain.ReasonInvalidToken}
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if !user.IsActive {
		return nil, &domain.AuthError{Reason: domain.ReasonAccountDeactivated}
	}

	return user.Sanitized(), nil
}
