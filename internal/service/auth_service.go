package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// Credentials bundles what a successful login or refresh hands back: the
// short-lived access token and the raw session token destined for the cookie.
type Credentials struct {
	AccessToken     string
	AccessExpiresAt time.Time
	SessionToken    string
	SessionTTL      time.Duration
}

// AuthService coordinates registration, login, refresh and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	sessions   *auth.SessionManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, sessions *auth.SessionManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, sessions: sessions, bcryptCost: bcryptCost}
}

// Register creates a new identity with the Reader role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already in use", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleReader,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates the identity and establishes its single session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Credentials, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthenticated("invalid credentials")
	}

	creds, err := s.issueCredentials(ctx, user, s.sessions.Create)
	if err != nil {
		return nil, nil, err
	}
	return user, creds, nil
}

// Refresh verifies the presented session token and, on success, issues a new
// access token and unconditionally rotates the session. A caller whose
// session was superseded by a concurrent login fails here and must
// re-authenticate.
func (s *AuthService) Refresh(ctx context.Context, userID, presented string) (*domain.User, *Credentials, error) {
	ok, err := s.sessions.Verify(ctx, userID, presented)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperrors.NewUnauthenticated("invalid session token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, nil, err
	}

	creds, err := s.issueCredentials(ctx, user, s.sessions.Rotate)
	if err != nil {
		return nil, nil, err
	}
	return user, creds, nil
}

// Logout revokes the session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Revoke(ctx, userID)
}

// GetUser loads one identity.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all identities, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UpdateRole changes an identity's role. Admin-only at the route layer.
func (s *AuthService) UpdateRole(ctx context.Context, id string, roleStr string) (*domain.User, error) {
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": roleStr})
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// UserSummary, SignupsByDay and CountByRole back the admin dashboard.
func (s *AuthService) UserSummary(ctx context.Context) (*domain.UserSummary, error) {
	return s.users.Summary(ctx)
}

func (s *AuthService) SignupsByDay(ctx context.Context, days int) ([]domain.DayCount, error) {
	return s.users.SignupsByDay(ctx, days)
}

func (s *AuthService) CountByRole(ctx context.Context) ([]domain.RoleCount, error) {
	return s.users.CountByRole(ctx)
}

// issueCredentials signs a fresh access token and establishes the session
// record, via SessionManager.Create on login and SessionManager.Rotate on
// refresh.
func (s *AuthService) issueCredentials(ctx context.Context, user *domain.User, establish func(context.Context, string) (string, time.Duration, error)) (*Credentials, error) {
	access, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	raw, ttl, err := establish(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		AccessToken:     access,
		AccessExpiresAt: expiresAt,
		SessionToken:    raw,
		SessionTTL:      ttl,
	}, nil
}
