// AngelaMos | 2026
// repository.go

package bookmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
)

var (
	ErrBookmarkNotFound = fmt.Errorf("bookmark: %w", core.ErrNotFound)
	ErrBookmarkExists   = fmt.Errorf("bookmark: %w", core.ErrConflict)
)

type Repository interface {
	Upsert(ctx context.Context, b *Bookmark) error
	ListByUser(ctx context.Context, scope pin.Scope, userID string) ([]Entry, error)
	SoftDelete(ctx context.Context, id, userID string) error
	Restore(ctx context.Context, id, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Upsert inserts b or revives the user's deleted bookmark on the same pin.
// A live bookmark on that pin yields ErrBookmarkExists.
func (r *repository) Upsert(ctx context.Context, b *Bookmark) error {
	query := `
		INSERT INTO bookmarks (id, user_id, pin_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT bookmarks_user_pin_key DO UPDATE
		SET is_deleted = false, updated_at = NOW()
		WHERE bookmarks.is_deleted = true
		RETURNING id, user_id, pin_id, is_deleted, created_at, updated_at`

	err := r.db.GetContext(ctx, b, query, b.ID, b.UserID, b.PinID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookmarkExists
	}
	if err != nil {
		return fmt.Errorf("upsert bookmark: %w", err)
	}

	return nil
}

// ListByUser returns the user's live bookmarks on pins scope can see,
// newest first.
func (r *repository) ListByUser(ctx context.Context, scope pin.Scope, userID string) ([]Entry, error) {
	clause, args := scope.Clause("p", 2)
	query := `SELECT b.id AS bookmark_id, b.created_at AS bookmarked_at, ` + pin.Columns + `
		FROM bookmarks b
		JOIN pins p ON p.id = b.pin_id
		WHERE b.user_id = $1 AND b.is_deleted = false AND ` + clause + `
		ORDER BY b.created_at DESC`

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, append([]any{userID}, args...)...); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return entries, nil
}

func (r *repository) SoftDelete(ctx context.Context, id, userID string) error {
	query := `
		UPDATE bookmarks
		SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = false`

	return r.exec(ctx, "delete bookmark", query, id, userID)
}

// Restore is idempotent for a bookmark that is already live.
func (r *repository) Restore(ctx context.Context, id, userID string) error {
	query := `
		UPDATE bookmarks
		SET is_deleted = false, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	return r.exec(ctx, "restore bookmark", query, id, userID)
}

func (r *repository) exec(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrBookmarkNotFound
	}

	return nil
}
