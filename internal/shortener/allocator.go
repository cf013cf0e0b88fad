package shortener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/metrics"
)

// Allocator assigns unique short codes. Custom codes are authoritative and never
// replaced; random codes are regenerated on collision up to maxAttempts times.
// The storage unique index remains the final arbiter, so a commit may still
// report a conflict after a successful availability check.
type Allocator struct {
	generator   Generator
	store       CodeStore
	maxAttempts int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewAllocator creates an allocator; m may be nil
func NewAllocator(generator Generator, store CodeStore, maxAttempts int, m *metrics.Metrics, logger *slog.Logger) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{
		generator:   generator,
		store:       store,
		maxAttempts: maxAttempts,
		metrics:     m,
		logger:      logger,
	}
}

// Allocate picks a code and hands it to commit. With a non-empty custom code only
// that code is tried. It returns the code that commit accepted.
func (a *Allocator) Allocate(ctx context.Context, custom string, commit CommitFunc) (string, error) {
	if custom != "" {
		return a.allocateCustom(ctx, custom, commit)
	}

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		code, err := a.generator.GenerateShortCode(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}

		available, err := a.IsAvailable(ctx, code)
		if err != nil {
			return "", err
		}
		if !available {
			a.collision(code, attempt)
			continue
		}

		err = commit(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		// Taken between the check and the insert
		a.collision(code, attempt)
	}

	a.metrics.AllocationExhausted()
	a.logger.Error("short code allocation exhausted", "attempts", a.maxAttempts)
	return "", fmt.Errorf("no free code after %d attempts: %w", a.maxAttempts, domain.ErrExhaustedRetries)
}

func (a *Allocator) allocateCustom(ctx context.Context, code string, commit CommitFunc) (string, error) {
	if err := domain.ValidateShortCode(code); err != nil {
		return "", err
	}

	available, err := a.IsAvailable(ctx, code)
	if err != nil {
		return "", err
	}
	if !available {
		return "", fmt.Errorf("short code %q: %w", code, domain.ErrConflict)
	}

	if err := commit(code); err != nil {
		return "", err
	}
	return code, nil
}

func (a *Allocator) collision(code string, attempt int) {
	a.metrics.AllocationConflict()
	a.logger.Debug("short code collision", "code", code, "attempt", attempt)
}

// IsAvailable reports whether no link currently holds code
func (a *Allocator) IsAvailable(ctx context.Context, code string) (bool, error) {
	exists, err := a.store.ShortCodeExists(ctx, code)
	if err != nil {
		return false, fmt.Errorf("failed to check short code: %w", err)
	}
	return !exists, nil
}

// CheckRename validates moving link linkID from current to requested. Keeping the
// same code is a no-op; a code held by another link is a conflict.
func (a *Allocator) CheckRename(ctx context.Context, linkID int64, current, requested string) error {
	if requested == current {
		return nil
	}
	if err := domain.ValidateShortCode(requested); err != nil {
		return err
	}

	holder, err := a.store.GetLinkByCode(ctx, requested)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check short code: %w", err)
	}
	if holder.ID != linkID {
		return fmt.Errorf("short code %q: %w", requested, domain.ErrConflict)
	}
	return nil
}

// MaxAttempts returns the retry bound for random codes
func (a *Allocator) MaxAttempts() int {
	return a.maxAttempts
}

// Close releases the generator
func (a *Allocator) Close() error {
	return a.generator.Close()
}
