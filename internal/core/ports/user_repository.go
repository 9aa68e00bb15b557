package ports

import (
	"context"
	"time"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// UserRepository is the Credential Store. Implementations must allow concurrent reads
// and scope every write to a single identity record.
type UserRepository interface {
	// FindByID returns domain.ErrUserNotFound when no identity has the id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches case-insensitively and returns domain.ErrUserNotFound on absence.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create assigns an id and fails with domain.ErrUserExists on a duplicate email.
	// It never overwrites an existing record.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// FindByManager lists identities whose manager reference is managerID.
	FindByManager(ctx context.Context, managerID string) ([]*domain.User, error)
}
