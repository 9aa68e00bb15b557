package ports

import (
	"context"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// AuthService covers the account lifecycle around the access-control core.
type AuthService interface {
	Register(ctx context.Context, params domain.NewUserParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListReports(ctx context.Context, managerID string) ([]*domain.User, error)
}

// Authenticator resolves a raw bearer token into a live identity.
// Failures are *domain.AuthError; any other error is an infrastructure fault.
type Authenticator interface {
	Resolve(ctx context.Context, rawToken string) (*domain.User, error)
}

// Authorizer decides access for an already resolved identity. It is pure.
type Authorizer interface {
	RequireRole(identity *domain.User, allowed ...domain.Role) domain.Decision
	RequireOwnerOrRole(identity *domain.User, resourceOwnerID string, overrides ...domain.Role) domain.Decision
}
