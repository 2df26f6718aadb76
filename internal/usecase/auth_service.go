package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/panellens/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	sessionKeyPrefix  = "session:"
)

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	SessionTTL time.Duration
	BcryptCost int
}

// AuthService handles dashboard accounts and cookie sessions
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.CacheRepository
	logger     *zap.Logger
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new auth service. Sessions are kept in the given cache.
func NewAuthService(
	users domain.UserRepository,
	sessions domain.CacheRepository,
	logger *zap.Logger,
	config AuthServiceConfig,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := config.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		sessions:   sessions,
		logger:     logger.Named("auth"),
		sessionTTL: ttl,
		bcryptCost: cost,
		now:        time.Now,
	}
}

// SessionTTL returns how long a session stays valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates an account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidRequest)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("registered user", zap.String("email", email))
	return user, nil
}

// Login checks credentials and opens a new session
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Set(ctx, sessionKeyPrefix+session.Token, session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return session, nil
}

// Authenticate resolves a session token
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	value, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	session, ok := value.(*domain.Session)
	if !ok {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, domain.ErrUnauthenticated
		}
		session = &domain.Session{}
		if err := json.Unmarshal(raw, session); err != nil {
			return nil, domain.ErrUnauthenticated
		}
	}

	if session.Token != token || s.now().After(session.ExpiresAt) {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// Logout ends a session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionKeyPrefix+token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
