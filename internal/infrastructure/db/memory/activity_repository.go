package memory

import (
	"context"
	"sync"
	"time"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

const defaultActivityCapacity = 1000

// ActivityRepository keeps the most recent activity entries in a ring.
type ActivityRepository struct {
	mu       sync.Mutex
	entries  []domain.ActivityEntry
	capacity int
}

// NewActivityRepository retains up to capacity entries (1000 when capacity <= 0).
func NewActivityRepository(capacity int) *ActivityRepository {
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityRepository{capacity: capacity}
}

func (r *ActivityRepository) Record(_ context.Context, entry domain.ActivityEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == r.capacity {
		r.entries = append(r.entries[:0], r.entries[1:]...)
	}
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a copy of the retained entries, oldest first.
func (r *ActivityRepository) Entries() []domain.ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
