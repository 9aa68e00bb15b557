package ports

import (
	"context"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// LoginThrottle limits repeated failed logins per email.
type LoginThrottle interface {
	// Blocked reports whether further attempts for email are currently refused.
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// ActivityRecorder persists audit entries. It sits outside the access-control core.
type ActivityRecorder interface {
	Record(ctx context.Context, entry domain.ActivityEntry) error
}
