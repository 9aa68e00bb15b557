// Package memory provides an in-process credential store for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// UserRepository implements ports.UserRepository in memory. Reads share the lock.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func clone(u *domain.User) *domain.User {
	c := *u
	if u.LastLogin != nil {
		ts := *u.LastLogin
		c.LastLogin = &ts
	}
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	email := domain.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrUserExists
	}
	stored := clone(user)
	stored.ID = uuid.NewString()
	stored.Email = email
	r.byID[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return clone(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, id, passwordHash string, at time.Time) error {
	return r.update(id, func(u *domain.User) {
		u.PasswordHash = passwordHash
		u.UpdatedAt = at
	})
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	return r.update(id, func(u *domain.User) {
		u.IsActive = active
		u.UpdatedAt = at
	})
}

func (r *UserRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *domain.User) {
		ts := at
		u.LastLogin = &ts
	})
}

func (r *UserRepository) update(id string, apply func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	apply(u)
	return nil
}

// FindByManager returns reports sorted by name.
func (r *UserRepository) FindByManager(_ context.Context, managerID string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.User{}
	for _, u := range r.byID {
		if managerID != "" && u.ManagerID == managerID {
			out = append(out, clone(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
