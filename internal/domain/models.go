package domain

import (
	"time"
)

// Link represents a shortened URL with its metadata and click analytics
type Link struct {
	ID           int64      `json:"-"`
	ShortCode    string     `json:"short_code"`
	ShortURL     string     `json:"short_url,omitempty"`
	OriginalURL  string     `json:"original_url"`
	Label        *string    `json:"label"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	ClickCount   int64      `json:"click_count"`
	LastAccessed *time.Time `json:"last_accessed"`
	UserID       *int64     `json:"-"`
}

// IsExpired reports whether the link is inert for redirection at now.
// A link expiring exactly at now is already expired.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// VisibleTo reports whether the caller may read or edit the link.
// Unowned links are visible to everyone; owned links only to their owner.
func (l *Link) VisibleTo(userID *int64) bool {
	if l.UserID == nil {
		return true
	}
	return userID != nil && *l.UserID == *userID
}

// Stats returns the analytics snapshot of the link
func (l *Link) Stats() *Stats {
	return &Stats{
		ClickCount:   l.ClickCount,
		LastAccessed: l.LastAccessed,
	}
}

// Stats is the read-only analytics view of a link
type Stats struct {
	ClickCount   int64      `json:"click_count"`
	LastAccessed *time.Time `json:"last_accessed"`
}

// Destination is the resolved target of a redirect
type Destination struct {
	URL string
}

// User is an account that can own links
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateLinkRequest represents the request to create a short link
type CreateLinkRequest struct {
	OriginalURL string     `json:"original_url"`
	CustomCode  string     `json:"custom_code,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Label       *string    `json:"label,omitempty"`
}

// UpdateLinkRequest represents a partial update of a link. Nil fields are left unchanged.
type UpdateLinkRequest struct {
	OriginalURL *string    `json:"original_url,omitempty"`
	CustomCode  *string    `json:"custom_code,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Label       *string    `json:"label,omitempty"`
}

// IsEmpty reports whether the request changes nothing
func (r UpdateLinkRequest) IsEmpty() bool {
	return r.OriginalURL == nil && r.CustomCode == nil && r.ExpiresAt == nil && r.Label == nil
}

// CredentialsRequest carries a username and password for signup and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned after a successful signup or login
type SessionResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListOrder selects the ordering of link listings
type ListOrder string

const (
	// OrderCreated lists newest links first
	OrderCreated ListOrder = "created"
	// OrderClicks lists the most clicked links first, then the most recently accessed
	OrderClicks ListOrder = "clicks"
)
