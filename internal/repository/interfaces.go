package repository

import (
	"context"
	"time"

	"github.com/joshdurbin/minilink/internal/domain"
)

// NewLink holds the fields of a link about to be inserted
type NewLink struct {
	ShortCode   string
	OriginalURL string
	Label       *string
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	UserID      *int64
}

// LinkChanges is a partial update of a link. Nil fields are left unchanged;
// ClearLabel removes the label.
type LinkChanges struct {
	ShortCode   *string
	OriginalURL *string
	Label       *string
	ClearLabel  bool
	ExpiresAt   *time.Time
}

// LinkRepository defines the interface for link data operations.
// Implementations translate unique-index violations into domain.ErrConflict
// and missing rows into domain.ErrNotFound.
type LinkRepository interface {
	// CreateLink inserts a new link with a zero click count
	CreateLink(ctx context.Context, link NewLink) (*domain.Link, error)

	// GetLinkByCode retrieves a link by its short code
	GetLinkByCode(ctx context.Context, shortCode string) (*domain.Link, error)

	// ListLinks retrieves the links owned by userID, or the unowned links when userID is nil
	ListLinks(ctx context.Context, userID *int64, order domain.ListOrder) ([]*domain.Link, error)

	// UpdateLink applies changes to the current row of a link in a single transaction
	UpdateLink(ctx context.Context, id int64, changes LinkChanges) (*domain.Link, error)

	// DeleteLink removes a link by its internal id
	DeleteLink(ctx context.Context, id int64) error

	// RecordClick resolves a short code and, unless the link is expired at now,
	// increments its click count and sets last accessed in one transaction
	RecordClick(ctx context.Context, shortCode string, now time.Time) (*domain.Link, error)

	// ShortCodeExists checks if a short code is taken
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
}

// UserRepository defines the interface for user account operations
type UserRepository interface {
	// CreateUser inserts a new user; a taken username yields domain.ErrConflict
	CreateUser(ctx context.Context, username, passwordHash string, createdAt time.Time) (*domain.User, error)

	// GetUserByID retrieves a user by id
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)

	// GetUserByUsername retrieves a user by username
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Repository combines all persistence operations behind one storage handle
type Repository interface {
	LinkRepository
	UserRepository

	// Ping verifies the storage connection
	Ping(ctx context.Context) error

	// Close closes the repository connection
	Close() error
}
