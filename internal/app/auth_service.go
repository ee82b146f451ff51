package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"smarttest-quiz-service/internal/auth"
	"smarttest-quiz-service/internal/domain"
	"smarttest-quiz-service/internal/metrics"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts up to 72 bytes
	maxPasswordBytes = 72
)

// Session is what register and login hand back to the client.
type Session struct {
	Token string
	User  domain.UserAccount
}

// AuthService registers and authenticates users.
type AuthService struct {
	users   UserRepository
	tokens  *auth.TokenIssuer
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAuthService(users UserRepository, tokens *auth.TokenIssuer, m *metrics.Metrics) *AuthService {
	return &AuthService{users: users, tokens: tokens, metrics: m, now: time.Now}
}

// Register creates an account; emails are unique case-insensitively.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (Session, error) {
	session, err := s.register(ctx, name, email, password)
	s.metrics.AuthAttempt("register", err == nil)
	return session, err
}

func (s *AuthService) register(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return Session{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case !strings.Contains(email, "@"):
		return Session{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	case len(password) < minPasswordLength:
		return Session{}, fmt.Errorf("%w: password must have at least %d characters", domain.ErrValidation, minPasswordLength)
	case len(password) > maxPasswordBytes:
		return Session{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, err
	}
	user, err := s.users.Create(ctx, domain.UserAccount{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// Login checks credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	session, err := s.login(ctx, email, password)
	s.metrics.AuthAttempt("login", err == nil)
	return session, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, domain.ErrInvalidCredentials
	}
	return s.session(user)
}

// Profile returns the account behind userID.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.UserAccount, error) {
	return s.users.FindByID(ctx, userID)
}

// Authenticate verifies a bearer token.
func (s *AuthService) Authenticate(token string) (auth.Claims, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) session(user domain.UserAccount) (Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user}, nil
}
