package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joshdurbin/minilink/internal/domain"
)

// LinkService is a mock implementation of service.LinkService
type LinkService struct {
	mock.Mock
}

// CreateLink creates a new link
func (m *LinkService) CreateLink(ctx context.Context, owner *int64, req domain.CreateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// ListLinks lists the caller's links
func (m *LinkService) ListLinks(ctx context.Context, owner *int64, order domain.ListOrder) ([]*domain.Link, error) {
	args := m.Called(ctx, owner, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

// GetLink returns one link
func (m *LinkService) GetLink(ctx context.Context, owner *int64, shortCode string) (*domain.Link, error) {
	args := m.Called(ctx, owner, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// UpdateLink applies a partial update
func (m *LinkService) UpdateLink(ctx context.Context, owner *int64, shortCode string, req domain.UpdateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, owner, shortCode, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// DeleteLink removes a link
func (m *LinkService) DeleteLink(ctx context.Context, owner *int64, shortCode string) error {
	args := m.Called(ctx, owner, shortCode)
	return args.Error(0)
}

// Resolve records a click and returns the destination
func (m *LinkService) Resolve(ctx context.Context, shortCode string) (*domain.Destination, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Destination), args.Error(1)
}

// Stats returns link analytics
func (m *LinkService) Stats(ctx context.Context, shortCode string) (*domain.Stats, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// Ping checks storage
func (m *LinkService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the service
func (m *LinkService) Close() error {
	args := m.Called()
	return args.Error(0)
}

// AccountService is a mock implementation of service.AccountService
type AccountService struct {
	mock.Mock
}

// Signup creates a user
func (m *AccountService) Signup(ctx context.Context, req domain.CredentialsRequest) (*domain.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionResponse), args.Error(1)
}

// Login starts a session
func (m *AccountService) Login(ctx context.Context, req domain.CredentialsRequest) (*domain.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionResponse), args.Error(1)
}

// Authenticate verifies a token
func (m *AccountService) Authenticate(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

// CurrentUser returns the session user
func (m *AccountService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
