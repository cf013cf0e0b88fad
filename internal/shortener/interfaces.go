package shortener

import (
	"context"

	"github.com/joshdurbin/minilink/internal/domain"
)

// Generator defines the interface for generating short code candidates
type Generator interface {
	// GenerateShortCode returns a new candidate; it does not check availability
	GenerateShortCode(ctx context.Context) (string, error)

	// Type returns the type identifier of the generator
	Type() string

	// Close performs cleanup when the generator is no longer needed
	Close() error
}

// CodeStore is the read side of link storage the allocator consults
type CodeStore interface {
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
	GetLinkByCode(ctx context.Context, shortCode string) (*domain.Link, error)
}

// CommitFunc persists a link under code. It must return an error wrapping
// domain.ErrConflict when the code was taken concurrently.
type CommitFunc func(code string) error

// Config holds configuration for code allocation
type Config struct {
	CodeLength  int `yaml:"code_length"`  // Length of random codes
	MaxAttempts int `yaml:"max_attempts"` // Random candidates tried before giving up
}

// GeneratorType constants
const (
	TypeRandom = "random"
)

// Defaults
const (
	DefaultCodeLength  = 7
	DefaultMaxAttempts = 10
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		CodeLength:  DefaultCodeLength,
		MaxAttempts: DefaultMaxAttempts,
	}
}
