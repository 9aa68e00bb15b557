package handler

import (
	"time"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

type createUserRequest struct {
	Name       string     `json:"name"       validate:"required,max=50"`
	Email      string     `json:"email"      validate:"required,email"`
	Password   string     `json:"password"   validate:"required,min=6,max=72"`
	Role       string     `json:"role"       validate:"omitempty,role"`
	ManagerID  string     `json:"manager_id"`
	Department string     `json:"department" validate:"max=100"`
	Position   string     `json:"position"   validate:"max=100"`
	Phone      string     `json:"phone"      validate:"max=32"`
	HireDate   *time.Time `json:"hire_date"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type reportsResponse struct {
	ManagerID string         `json:"manager_id"`
	Reports   []*domain.User `json:"reports"`
}

type messageResponse struct {
	Message string `json:"message"`
}
