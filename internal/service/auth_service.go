package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/ports"
	"github.com/njprem/ShipRequest_BackEnd/internal/util"
)

const (
	DefaultTokenTTL = 30 * time.Minute
	TokenTypeBearer = "bearer"
)

// AuthConfig carries the signing secret, token lifetime and hashing cost.
// Now overrides the clock used for token issue and validation.
type AuthConfig struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	Now        func() time.Time
}

type AuthService struct {
	users  ports.UserRepository
	hasher *util.PasswordHasher
	tokens *util.TokenManager
}

type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	User      *domain.User
}

func NewAuthService(users ports.UserRepository, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tokens := util.NewTokenManager(cfg.Secret, ttl)
	if cfg.Now != nil {
		tokens.WithClock(cfg.Now)
	}
	return &AuthService{
		users:  users,
		hasher: util.NewPasswordHasher(cfg.BcryptCost),
		tokens: tokens,
	}
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

func (s *AuthService) VerifyPassword(password, digest string) bool {
	return s.hasher.Verify(password, digest)
}

// IssueToken signs a token for subject that expires ttl from now.
func (s *AuthService) IssueToken(subject string, ttl time.Duration) (string, time.Time, error) {
	return s.tokens.Issue(subject, ttl)
}

// ValidateToken checks signature and expiry only; it never touches the store.
func (s *AuthService) ValidateToken(token string) (string, error) {
	subject, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, util.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return subject, nil
}

// ResolveCurrentUser accepts a raw token or a "Bearer <token>" credential and
// returns the user it was issued to. Every failure matches ErrUnauthenticated.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, credential string) (*domain.User, error) {
	token := util.StripBearer(credential)
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}

	email, err := s.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: inactive user", ErrUnauthenticated)
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	switch {
	case username == "":
		return nil, validationError("username is required")
	case email == "":
		return nil, validationError("email is required")
	case password == "":
		return nil, validationError("password is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyUsed
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, validationError(err.Error())
	}

	user, err := s.users.Create(ctx, email, username, digest)
	if err != nil {
		if field, ok := conflictField(err); ok {
			if field == "username" {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
