package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/joshdurbin/minilink/db/sqlc"
	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/repository"
)

// connection parameters applied to every pooled connection: wait on locks instead of
// failing, take the write lock at BEGIN so read-then-write transactions cannot deadlock
const connParams = "?_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL&_foreign_keys=on"

// Repository implements repository.Repository using SQLite
type Repository struct {
	db      *sql.DB
	queries *sqlc.Queries
	logger  *slog.Logger
}

// New opens the SQLite database at databasePath, applies pending migrations and
// returns a repository that owns the connection pool
func New(databasePath string, logger *slog.Logger) (*Repository, error) {
	if err := Migrate(databasePath, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite3", databasePath+connParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		db:      db,
		queries: sqlc.New(db),
		logger:  logger,
	}, nil
}

// CreateLink inserts a new link
func (r *Repository) CreateLink(ctx context.Context, link repository.NewLink) (*domain.Link, error) {
	var created *domain.Link
	err := r.withTx(ctx, func(q *sqlc.Queries) error {
		id, err := q.CreateLink(ctx, sqlc.CreateLinkParams{
			ShortCode:   link.ShortCode,
			OriginalUrl: link.OriginalURL,
			Label:       nullString(link.Label),
			CreatedAt:   link.CreatedAt.UTC(),
			ExpiresAt:   nullTime(link.ExpiresAt),
			UserID:      nullInt64(link.UserID),
		})
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("short code %q: %w", link.ShortCode, domain.ErrConflict)
			}
			if isForeignKeyViolation(err) {
				return fmt.Errorf("owner no longer exists: %w", domain.ErrUnauthorized)
			}
			return fmt.Errorf("failed to create link: %w", err)
		}

		row, err := q.GetLinkByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read created link: %w", err)
		}
		created = toDomainLink(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetLinkByCode retrieves a link by its short code
func (r *Repository) GetLinkByCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	row, err := r.queries.GetLinkByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return toDomainLink(row), nil
}

// ListLinks retrieves the links owned by userID, or the unowned links when userID is nil
func (r *Repository) ListLinks(ctx context.Context, userID *int64, order domain.ListOrder) ([]*domain.Link, error) {
	var (
		rows []sqlc.Link
		err  error
	)
	switch order {
	case domain.OrderClicks:
		rows, err = r.queries.ListLinksByClicks(ctx, nullInt64(userID))
	default:
		rows, err = r.queries.ListLinks(ctx, nullInt64(userID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]*domain.Link, len(rows))
	for i, row := range rows {
		links[i] = toDomainLink(row)
	}

	return links, nil
}

// UpdateLink applies changes on top of the row read inside the same write
// transaction, so concurrent updates of different fields both survive
func (r *Repository) UpdateLink(ctx context.Context, id int64, changes repository.LinkChanges) (*domain.Link, error) {
	var updated *domain.Link
	err := r.withTx(ctx, func(q *sqlc.Queries) error {
		current, err := q.GetLinkByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to read link: %w", err)
		}

		params := sqlc.UpdateLinkParams{
			ShortCode:   current.ShortCode,
			OriginalUrl: current.OriginalUrl,
			Label:       current.Label,
			ExpiresAt:   current.ExpiresAt,
			ID:          id,
		}
		if changes.ShortCode != nil {
			params.ShortCode = *changes.ShortCode
		}
		if changes.OriginalURL != nil {
			params.OriginalUrl = *changes.OriginalURL
		}
		if changes.ClearLabel {
			params.Label = sql.NullString{}
		} else if changes.Label != nil {
			params.Label = nullString(changes.Label)
		}
		if changes.ExpiresAt != nil {
			params.ExpiresAt = nullTime(changes.ExpiresAt)
		}

		affected, err := q.UpdateLink(ctx, params)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("short code %q: %w", params.ShortCode, domain.ErrConflict)
			}
			return fmt.Errorf("failed to update link: %w", err)
		}
		if affected == 0 {
			return domain.ErrNotFound
		}

		row, err := q.GetLinkByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read updated link: %w", err)
		}
		updated = toDomainLink(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteLink removes a link by its internal id
func (r *Repository) DeleteLink(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(q *sqlc.Queries) error {
		affected, err := q.DeleteLink(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete link: %w", err)
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// RecordClick looks up the link, rejects it when expired at now, and otherwise
// increments the click count and stamps last accessed before committing
func (r *Repository) RecordClick(ctx context.Context, shortCode string, now time.Time) (*domain.Link, error) {
	var clicked *domain.Link
	err := r.withTx(ctx, func(q *sqlc.Queries) error {
		row, err := q.GetLinkByCode(ctx, shortCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to get link: %w", err)
		}

		if toDomainLink(row).IsExpired(now) {
			return domain.ErrExpired
		}

		if _, err := q.IncrementClicks(ctx, sqlc.IncrementClicksParams{
			LastAccessed: sql.NullTime{Time: now.UTC(), Valid: true},
			ID:           row.ID,
		}); err != nil {
			return fmt.Errorf("failed to record click: %w", err)
		}

		row, err = q.GetLinkByID(ctx, row.ID)
		if err != nil {
			return fmt.Errorf("failed to read clicked link: %w", err)
		}
		clicked = toDomainLink(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return clicked, nil
}

// ShortCodeExists checks if a short code is taken
func (r *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	count, err := r.queries.CountLinksByCode(ctx, shortCode)
	if err != nil {
		return false, fmt.Errorf("failed to check short code existence: %w", err)
	}
	return count > 0, nil
}

// CreateUser inserts a new user
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string, createdAt time.Time) (*domain.User, error) {
	var created *domain.User
	err := r.withTx(ctx, func(q *sqlc.Queries) error {
		id, err := q.CreateUser(ctx, sqlc.CreateUserParams{
			Username:     username,
			PasswordHash: passwordHash,
			CreatedAt:    createdAt.UTC(),
		})
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("username %q: %w", username, domain.ErrConflict)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		row, err := q.GetUserByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read created user: %w", err)
		}
		created = toDomainUser(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetUserByID retrieves a user by id
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row, err := r.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(row), nil
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(row), nil
}

// Ping verifies the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the repository connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// withTx runs fn inside a transaction that commits when fn succeeds and rolls back otherwise
func (r *Repository) withTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}
	return false
}

// isForeignKeyViolation reports whether err is a SQLite foreign key failure
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// toDomainLink converts a sqlc.Link to domain.Link
func toDomainLink(row sqlc.Link) *domain.Link {
	link := &domain.Link{
		ID:          row.ID,
		ShortCode:   row.ShortCode,
		OriginalURL: row.OriginalUrl,
		CreatedAt:   row.CreatedAt.UTC(),
		ClickCount:  row.ClickCount,
	}

	if row.Label.Valid {
		label := row.Label.String
		link.Label = &label
	}
	if row.ExpiresAt.Valid {
		expiresAt := row.ExpiresAt.Time.UTC()
		link.ExpiresAt = &expiresAt
	}
	if row.LastAccessed.Valid {
		lastAccessed := row.LastAccessed.Time.UTC()
		link.LastAccessed = &lastAccessed
	}
	if row.UserID.Valid {
		userID := row.UserID.Int64
		link.UserID = &userID
	}

	return link
}

// toDomainUser converts a sqlc.User to domain.User
func toDomainUser(row sqlc.User) *domain.User {
	return &domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// Ensure Repository implements the interface
var _ repository.Repository = (*Repository)(nil)
