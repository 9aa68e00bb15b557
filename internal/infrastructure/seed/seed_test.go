package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/service"
	"github.com/staffdesk/hr-identity/internal/infrastructure/db/memory"
	"github.com/staffdesk/hr-identity/internal/infrastructure/security"
)

const seedDoc = `
users:
  - name: Sam
    email: Sam@Example.com
    password: senior-pass
    role: Senior
  - name: June
    email: june@example.com
    password: junior-pass
    role: junior
    manager_email: sam@example.com
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func newAuth(repo *memory.UserRepository) *service.AuthService {
	cfg := security.Config{Secret: []byte("seed-test-secret-012345"), TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	return service.NewAuthService(repo, security.NewBcryptHasher(cfg), security.NewJWTService(cfg), zerolog.Nop())
}

func TestLoadFile(t *testing.T) {
	repo := memory.NewUserRepository()
	auth := newAuth(repo)
	path := writeSeed(t, seedDoc)

	n, err := LoadFile(context.Background(), path, auth, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 users created, got %d", n)
	}

	sam, _ := repo.FindByEmail(context.Background(), "sam@example.com")
	june, err := repo.FindByEmail(context.Background(), "june@example.com")
	if err != nil {
		t.Fatalf("june missing: %v", err)
	}
	if june.Role != domain.RoleJunior || june.ManagerID != sam.ID {
		t.Fatalf("unexpected junior: %+v", june)
	}

	again, err := LoadFile(context.Background(), path, auth, repo, zerolog.Nop())
	if err != nil || again != 0 {
		t.Fatalf("reload should skip existing users, got %d %v", again, err)
	}
}

func TestLoadFile_UnknownRole(t *testing.T) {
	repo := memory.NewUserRepository()
	path := writeSeed(t, "users:\n  - name: X\n    email: x@example.com\n    password: xxxxxx\n    role: Root\n")
	if _, err := LoadFile(context.Background(), path, newAuth(repo), repo, zerolog.Nop()); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLoadFile_JuniorWithoutManager(t *testing.T) {
	repo := memory.NewUserRepository()
	path := writeSeed(t, "users:\n  - name: J\n    email: j@example.com\n    password: junior-pass\n    role: Junior\n")
	_, err := LoadFile(context.Background(), path, newAuth(repo), repo, zerolog.Nop())
	if !errors.Is(err, domain.ErrManagerRequired) {
		t.Fatalf("expected ErrManagerRequired, got %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "j@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("invalid junior must not be stored")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	repo := memory.NewUserRepository()
	if _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), newAuth(repo), repo, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
