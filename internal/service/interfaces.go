package service

import (
	"context"

	"github.com/joshdurbin/minilink/internal/domain"
)

// LinkService defines link management, redirect resolution and analytics.
// owner is the authenticated caller or nil for anonymous requests.
type LinkService interface {
	// CreateLink allocates a code and stores a new link owned by owner
	CreateLink(ctx context.Context, owner *int64, req domain.CreateLinkRequest) (*domain.Link, error)

	// ListLinks returns the links owned by owner, or the unowned links for anonymous callers
	ListLinks(ctx context.Context, owner *int64, order domain.ListOrder) ([]*domain.Link, error)

	// GetLink returns a link visible to owner
	GetLink(ctx context.Context, owner *int64, shortCode string) (*domain.Link, error)

	// UpdateLink applies a partial update, renaming the code when requested
	UpdateLink(ctx context.Context, owner *int64, shortCode string, req domain.UpdateLinkRequest) (*domain.Link, error)

	// DeleteLink removes a link visible to owner
	DeleteLink(ctx context.Context, owner *int64, shortCode string) error

	// Resolve records a click on an active link and returns its destination
	Resolve(ctx context.Context, shortCode string) (*domain.Destination, error)

	// Stats returns the analytics of a link without recording a click
	Stats(ctx context.Context, shortCode string) (*domain.Stats, error)

	// Ping checks that storage is reachable
	Ping(ctx context.Context) error

	// Close releases the service dependencies
	Close() error
}

// AccountService defines user signup, login and session verification
type AccountService interface {
	// Signup creates a user and starts a session
	Signup(ctx context.Context, req domain.CredentialsRequest) (*domain.SessionResponse, error)

	// Login verifies credentials and starts a session
	Login(ctx context.Context, req domain.CredentialsRequest) (*domain.SessionResponse, error)

	// Authenticate verifies a session token and returns the user id
	Authenticate(token string) (int64, error)

	// CurrentUser returns the user behind an authenticated session
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)
}
