// Package seed bootstraps identities from a YAML file at startup.
//
//	users:
//	  - name: Sam
//	    email: sam@example.com
//	    password: changeme
//	    role: Senior
//	  - name: June
//	    email: june@example.com
//	    password: changeme
//	    role: Junior
//	    manager_email: sam@example.com
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// Registrar is the subset of the auth service the seeder needs.
type Registrar interface {
	Register(ctx context.Context, params domain.NewUserParams) (*domain.User, error)
}

// Finder resolves existing identities by email.
type Finder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type usersFile struct {
	Users []Entry `yaml:"users"`
}

// Entry is one user in a seed document.
type Entry struct {
	Name         string      `yaml:"name"`
	Email        string      `yaml:"email"`
	Password     string      `yaml:"password"`
	Role         domain.Role `yaml:"role"`
	ManagerEmail string      `yaml:"manager_email"`
	Department   string      `yaml:"department"`
	Position     string      `yaml:"position"`
	Phone        string      `yaml:"phone"`
}

// Parse decodes a seed document. Unknown roles fail decoding.
func Parse(data []byte) ([]Entry, error) {
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return uf.Users, nil
}

// LoadFile registers every user in path whose email is not yet taken and returns
// how many were created. Entries are applied in file order, so managers must be
// listed before their reports.
func LoadFile(ctx context.Context, path string, reg Registrar, finder Finder, log zerolog.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, e := range entries {
		if _, err := finder.FindByEmail(ctx, e.Email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return created, err
		}

		params := domain.NewUserParams{
			Name:       e.Name,
			Email:      e.Email,
			Password:   e.Password,
			Role:       e.Role,
			Department: e.Department,
			Position:   e.Position,
			Phone:      e.Phone,
		}
		if e.ManagerEmail != "" {
			manager, err := finder.FindByEmail(ctx, e.ManagerEmail)
			if err != nil {
				return created, fmt.Errorf("seed %s: manager %s: %w", e.Email, e.ManagerEmail, err)
			}
			params.ManagerID = manager.ID
		}

		if _, err := reg.Register(ctx, params); err != nil {
			return created, fmt.Errorf("seed %s: %w", e.Email, err)
		}
		created++
		log.Info().Str("email", domain.NormalizeEmail(e.Email)).Str("role", e.Role.String()).Msg("seeded user")
	}
	return created, nil
}
