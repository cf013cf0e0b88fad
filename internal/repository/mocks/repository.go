package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/repository"
)

// Repository is a mock implementation of repository.Repository
type Repository struct {
	mock.Mock
}

var _ repository.Repository = (*Repository)(nil)

// CreateLink inserts a new link
func (m *Repository) CreateLink(ctx context.Context, link repository.NewLink) (*domain.Link, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// GetLinkByCode retrieves a link by its short code
func (m *Repository) GetLinkByCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// ListLinks retrieves links for an owner
func (m *Repository) ListLinks(ctx context.Context, userID *int64, order domain.ListOrder) ([]*domain.Link, error) {
	args := m.Called(ctx, userID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

// UpdateLink replaces the mutable fields of a link
func (m *Repository) UpdateLink(ctx context.Context, id int64, changes repository.LinkChanges) (*domain.Link, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// DeleteLink removes a link
func (m *Repository) DeleteLink(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RecordClick records a redirect
func (m *Repository) RecordClick(ctx context.Context, shortCode string, now time.Time) (*domain.Link, error) {
	args := m.Called(ctx, shortCode, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// ShortCodeExists checks if a short code is taken
func (m *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

// CreateUser inserts a new user
func (m *Repository) CreateUser(ctx context.Context, username, passwordHash string, createdAt time.Time) (*domain.User, error) {
	args := m.Called(ctx, username, passwordHash, createdAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// GetUserByID retrieves a user by id
func (m *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// GetUserByUsername retrieves a user by username
func (m *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ping verifies the storage connection
func (m *Repository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the repository connection
func (m *Repository) Close() error {
	args := m.Called()
	return args.Error(0)
}
