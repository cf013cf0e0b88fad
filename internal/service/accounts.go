package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshdurbin/minilink/internal/auth"
	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/repository"
)

// accountService implements AccountService
type accountService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	sessions *auth.Sessions
	logger   *slog.Logger
	now      func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(users repository.UserRepository, hasher *auth.Hasher, sessions *auth.Sessions, opts Options) AccountService {
	opts = opts.withDefaults()
	return &accountService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Signup creates a user and starts a session
func (s *accountService) Signup(ctx context.Context, req domain.CredentialsRequest) (*domain.SessionResponse, error) {
	if err := domain.ValidateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req.Username, hash, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return s.startSession(user)
}

// Login verifies credentials and starts a session
func (s *accountService) Login(ctx context.Context, req domain.CredentialsRequest) (*domain.SessionResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.startSession(user)
}

// Authenticate verifies a session token
func (s *accountService) Authenticate(token string) (int64, error) {
	return s.sessions.Verify(token)
}

// CurrentUser returns the user behind a session
func (s *accountService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		// A valid token for a vanished user is not a session
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *accountService) startSession(user *domain.User) (*domain.SessionResponse, error) {
	token, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &domain.SessionResponse{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
