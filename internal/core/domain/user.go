package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
	MaxNameLength     = 50
)

var validate = validator.New()

// User is the durable identity record: credentials, role and reporting link.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	ManagerID    string     `json:"manager_id,omitempty"`
	Department   string     `json:"department,omitempty"`
	Position     string     `json:"position,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	HireDate     time.Time  `json:"hire_date"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sanitized returns a copy safe to hand past the authentication boundary.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	if u.LastLogin != nil {
		ts := *u.LastLogin
		clone.LastLogin = &ts
	}
	return &clone
}

// NewUserParams carries everything needed to construct a User.
type NewUserParams struct {
	Name       string
	Email      string
	Password   string
	Role       Role
	ManagerID  string
	Department string
	Position   string
	Phone      string
	HireDate   time.Time
}

// NormalizeEmail trims and lowercases an email; emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the plaintext length bounds: at least MinPasswordLength
// characters and at most MaxPasswordBytes bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Validate checks the construction invariants that do not need the store.
// A Junior without a manager reference is rejected here, before anything is hashed or written.
func (p NewUserParams) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidName
	}
	if err := validate.Var(NormalizeEmail(p.Email), "required,email"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, p.Email)
	}
	if err := ValidatePassword(p.Password); err != nil {
		return err
	}
	if !p.Role.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(p.Role))
	}
	if p.Role == RoleJunior && strings.TrimSpace(p.ManagerID) == "" {
		return ErrManagerRequired
	}
	return nil
}

// NewUser validates p and builds an active User around an already computed hash.
func NewUser(p NewUserParams, passwordHash string, now time.Time) (*User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	hireDate := p.HireDate
	if hireDate.IsZero() {
		hireDate = now
	}
	return &User{
		Name:         strings.TrimSpace(p.Name),
		Email:        NormalizeEmail(p.Email),
		PasswordHash: passwordHash,
		Role:         p.Role,
		ManagerID:    strings.TrimSpace(p.ManagerID),
		Department:   strings.TrimSpace(p.Department),
		Position:     strings.TrimSpace(p.Position),
		Phone:        strings.TrimSpace(p.Phone),
		HireDate:     hireDate.UTC(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
