package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/metrics"
	"github.com/joshdurbin/minilink/internal/repository"
	"github.com/joshdurbin/minilink/internal/shortener"
)

// LinkStore is the storage a link service needs
type LinkStore interface {
	repository.LinkRepository
	Ping(ctx context.Context) error
}

// Options carries the optional collaborators of the services
type Options struct {
	ServerURL string           // prefix for short_url, e.g. http://localhost:8080
	Logger    *slog.Logger     // defaults to slog.Default()
	Metrics   *metrics.Metrics // nil disables metrics
	Now       func() time.Time // defaults to time.Now
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.ServerURL = strings.TrimRight(o.ServerURL, "/")
	return o
}

// linkService implements LinkService
type linkService struct {
	repo      LinkStore
	allocator *shortener.Allocator
	serverURL string
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewLinkService creates a new link service
func NewLinkService(repo LinkStore, allocator *shortener.Allocator, opts Options) LinkService {
	opts = opts.withDefaults()
	return &linkService{
		repo:      repo,
		allocator: allocator,
		serverURL: opts.ServerURL,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
}

// CreateLink allocates a code and stores a new link
func (s *linkService) CreateLink(ctx context.Context, owner *int64, req domain.CreateLinkRequest) (*domain.Link, error) {
	if err := domain.ValidateOriginalURL(req.OriginalURL); err != nil {
		return nil, err
	}
	if req.CustomCode != "" {
		if err := domain.ValidateShortCode(req.CustomCode); err != nil {
			return nil, err
		}
	}

	createdAt := s.now().UTC()
	var link *domain.Link
	code, err := s.allocator.Allocate(ctx, req.CustomCode, func(code string) error {
		created, err := s.repo.CreateLink(ctx, repository.NewLink{
			ShortCode:   code,
			OriginalURL: req.OriginalURL,
			Label:       normalizeLabel(req.Label),
			CreatedAt:   createdAt,
			ExpiresAt:   req.ExpiresAt,
			UserID:      owner,
		})
		if err != nil {
			return err
		}
		link = created
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	s.metrics.LinkCreated()
	s.logger.Info("link created", "code", code, "custom", req.CustomCode != "", "owned", owner != nil)

	return s.present(link), nil
}

// ListLinks returns the caller's links
func (s *linkService) ListLinks(ctx context.Context, owner *int64, order domain.ListOrder) ([]*domain.Link, error) {
	switch order {
	case "":
		order = domain.OrderCreated
	case domain.OrderCreated, domain.OrderClicks:
	default:
		return nil, domain.NewValidationError("sort", fmt.Sprintf("must be %q or %q", domain.OrderCreated, domain.OrderClicks))
	}

	links, err := s.repo.ListLinks(ctx, owner, order)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	for _, link := range links {
		s.present(link)
	}
	return links, nil
}

// GetLink returns a link visible to owner
func (s *linkService) GetLink(ctx context.Context, owner *int64, shortCode string) (*domain.Link, error) {
	link, err := s.visibleLink(ctx, owner, shortCode)
	if err != nil {
		return nil, err
	}
	return s.present(link), nil
}

// UpdateLink applies a partial update. An empty custom code is not a rename.
func (s *linkService) UpdateLink(ctx context.Context, owner *int64, shortCode string, req domain.UpdateLinkRequest) (*domain.Link, error) {
	if req.CustomCode != nil && *req.CustomCode == "" {
		req.CustomCode = nil
	}
	if req.OriginalURL != nil {
		if err := domain.ValidateOriginalURL(*req.OriginalURL); err != nil {
			return nil, err
		}
	}
	if req.CustomCode != nil {
		if err := domain.ValidateShortCode(*req.CustomCode); err != nil {
			return nil, err
		}
	}

	link, err := s.visibleLink(ctx, owner, shortCode)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return s.present(link), nil
	}

	changes := repository.LinkChanges{
		OriginalURL: req.OriginalURL,
		ExpiresAt:   req.ExpiresAt,
	}
	if req.Label != nil {
		changes.Label = normalizeLabel(req.Label)
		changes.ClearLabel = changes.Label == nil
	}
	if req.CustomCode != nil && *req.CustomCode != link.ShortCode {
		if err := s.allocator.CheckRename(ctx, link.ID, link.ShortCode, *req.CustomCode); err != nil {
			return nil, err
		}
		changes.ShortCode = req.CustomCode
	}

	updated, err := s.repo.UpdateLink(ctx, link.ID, changes)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	if updated.ShortCode != link.ShortCode {
		s.logger.Info("link renamed", "from", link.ShortCode, "to", updated.ShortCode)
	}

	return s.present(updated), nil
}

// DeleteLink removes a link visible to owner
func (s *linkService) DeleteLink(ctx context.Context, owner *int64, shortCode string) error {
	link, err := s.visibleLink(ctx, owner, shortCode)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteLink(ctx, link.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete link: %w", err)
	}

	s.logger.Info("link deleted", "code", shortCode)
	return nil
}

// Resolve records a click and returns the destination
func (s *linkService) Resolve(ctx context.Context, shortCode string) (*domain.Destination, error) {
	link, err := s.repo.RecordClick(ctx, shortCode, s.now())
	switch {
	case err == nil:
		s.metrics.Redirect(metrics.OutcomeActive)
		return &domain.Destination{URL: link.OriginalURL}, nil
	case errors.Is(err, domain.ErrNotFound):
		s.metrics.Redirect(metrics.OutcomeNotFound)
		return nil, err
	case errors.Is(err, domain.ErrExpired):
		s.metrics.Redirect(metrics.OutcomeExpired)
		return nil, err
	default:
		s.metrics.Redirect(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to record click: %w", err)
	}
}

// Stats returns the analytics of a link
func (s *linkService) Stats(ctx context.Context, shortCode string) (*domain.Stats, error) {
	link, err := s.repo.GetLinkByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get link stats: %w", err)
	}
	return link.Stats(), nil
}

// Ping checks that storage is reachable
func (s *linkService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Close closes the service and its dependencies
func (s *linkService) Close() error {
	if err := s.allocator.Close(); err != nil {
		return fmt.Errorf("failed to close allocator: %w", err)
	}
	return nil
}

func (s *linkService) visibleLink(ctx context.Context, owner *int64, shortCode string) (*domain.Link, error) {
	link, err := s.repo.GetLinkByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	// Links owned by someone else are reported as missing
	if !link.VisibleTo(owner) {
		return nil, domain.ErrNotFound
	}
	return link, nil
}

func (s *linkService) present(link *domain.Link) *domain.Link {
	if s.serverURL != "" {
		link.ShortURL = s.serverURL + "/r/" + link.ShortCode
	}
	return link
}

// normalizeLabel trims the label; an empty label clears it
func normalizeLabel(label *string) *string {
	if label == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*label)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrConflict,
		domain.ErrNotFound,
		domain.ErrExhaustedRetries,
		domain.ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
