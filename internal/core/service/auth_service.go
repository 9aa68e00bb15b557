package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// AuthService implements account registration, login and credential lifecycle.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	log      zerolog.Logger
	now      func() time.Time

	// decoy is a digest verified against when the email is unknown, so both
	// failure paths pay for one bcrypt comparison.
	decoyOnce sync.Once
	decoy     string
}

// decoyPassword is hashed once to produce the decoy digest.
const decoyPassword = "unknown-account-decoy"

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates params, resolves the reporting link and stores a new identity.
// Nothing is hashed or written when validation fails.
func (s *AuthService) Register(ctx context.Context, params domain.NewUserParams) (*domain.User, error) {
	if params.Role == "" {
		params.Role = domain.RoleJunior
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkManager(ctx, params); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(params, hash, s.now().UTC())
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user registered")
	return created.Sanitized(), nil
}

// checkManager requires the manager reference, when present, to resolve. Juniors must
// report to a Senior.
func (s *AuthService) checkManager(ctx context.Context, params domain.NewUserParams) error {
	managerID := strings.TrimSpace(params.ManagerID)
	if managerID == "" {
		return nil
	}
	manager, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrManagerNotFound
		}
		return fmt.Errorf("resolve manager: %w", err)
	}
	if params.Role == domain.RoleJunior && manager.Role != domain.RoleSenior {
		return domain.ErrInvalidManager
	}
	return nil
}

// Login verifies a submitted password and issues a token. Unknown emails and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.blocked(ctx, email) {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.verifyDecoy(password)
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, &domain.AuthError{Reason: domain.ReasonAccountDeactivated}
	}

	s.resetFailures(ctx, email)

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user.Sanitized(), nil
}

func (s *AuthService) verifyDecoy(password string) {
	s.decoyOnce.Do(func() {
		digest, err := s.hasher.Hash(decoyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build decoy digest")
			return
		}
		s.decoy = digest
	})
	if s.decoy != "" {
		s.hasher.Verify(password, s.decoy)
	}
}

func (s *AuthService) blocked(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetFailures(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}
}

// ChangePassword replaces the hash after verifying the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash, s.now().UTC()); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// SetActive activates or deactivates an identity. Deactivation takes effect on the
// next request even for tokens that have not expired.
func (s *AuthService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	now := s.now().UTC()
	if err := s.repo.SetActive(ctx, userID, active, now); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Bool("active", active).Msg("user activation changed")
	return user.Sanitized(), nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// ListReports returns the identities reporting to managerID.
func (s *AuthService) ListReports(ctx context.Context, managerID string) ([]*domain.User, error) {
	reports, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(reports))
	for _, u := range reports {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// EnsureAdmin creates the bootstrap CEO account unless its email is already registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return existing.Sanitized(), false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	created, err := s.Register(ctx, domain.NewUserParams{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleCEO,
	})
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return created, true, nil
}
