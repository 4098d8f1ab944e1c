// AngelaMos | 2026
// repository.go

package like

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
)

// Liker is a user who liked a pin.
type Liker struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type Repository interface {
	// LockVisiblePin row-locks the pin for the rest of the transaction. It
	// returns core.ErrNotFound when scope does not permit the pin.
	LockVisiblePin(ctx context.Context, scope pin.Scope, pinID string) error
	PinVisible(ctx context.Context, scope pin.Scope, pinID string) error
	Add(ctx context.Context, userID, pinID string) error
	Remove(ctx context.Context, userID, pinID string) error
	RefreshCount(ctx context.Context, pinID string) (int, error)
	Likers(ctx context.Context, pinID string) ([]Liker, error)
	PinsLikedBy(ctx context.Context, scope pin.Scope, userID string) ([]pin.Pin, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) LockVisiblePin(ctx context.Context, scope pin.Scope, pinID string) error {
	return r.visible(ctx, scope, pinID, " FOR UPDATE")
}

func (r *repository) PinVisible(ctx context.Context, scope pin.Scope, pinID string) error {
	return r.visible(ctx, scope, pinID, "")
}

func (r *repository) visible(ctx context.Context, scope pin.Scope, pinID, suffix string) error {
	clause, args := scope.Clause("p", 2)
	query := `SELECT p.id FROM pins p WHERE p.id = $1 AND ` + clause + suffix

	var id string
	err := r.db.GetContext(ctx, &id, query, append([]any{pinID}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find likeable pin: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find likeable pin: %w", err)
	}

	return nil
}

// Add is idempotent; liking twice keeps one row.
func (r *repository) Add(ctx context.Context, userID, pinID string) error {
	query := `
		INSERT INTO likes (user_id, pin_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, pin_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, pinID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, userID, pinID string) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND pin_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, pinID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	return nil
}

// RefreshCount recomputes the denormalized counter from the likes table.
func (r *repository) RefreshCount(ctx context.Context, pinID string) (int, error) {
	query := `
		UPDATE pins
		SET like_count = (SELECT COUNT(*) FROM likes WHERE pin_id = $1)
		WHERE id = $1
		RETURNING like_count`

	var count int
	if err := r.db.GetContext(ctx, &count, query, pinID); err != nil {
		return 0, fmt.Errorf("refresh like count: %w", err)
	}
	return count, nil
}

func (r *repository) Likers(ctx context.Context, pinID string) ([]Liker, error) {
	query := `
		SELECT u.id, u.name
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.pin_id = $1 AND u.is_deleted = false
		ORDER BY l.created_at`

	likers := []Liker{}
	if err := r.db.SelectContext(ctx, &likers, query, pinID); err != nil {
		return nil, fmt.Errorf("list likers: %w", err)
	}
	return likers, nil
}

// PinsLikedBy lists the pins userID liked that scope can see.
func (r *repository) PinsLikedBy(ctx context.Context, scope pin.Scope, userID string) ([]pin.Pin, error) {
	clause, args := scope.Clause("p", 2)
	query := `SELECT ` + pin.Columns + `
		FROM likes l
		JOIN pins p ON p.id = l.pin_id
		WHERE l.user_id = $1 AND ` + clause + `
		ORDER BY l.created_at DESC`

	pins := []pin.Pin{}
	if err := r.db.SelectContext(ctx, &pins, query, append([]any{userID}, args...)...); err != nil {
		return nil, fmt.Errorf("list liked pins: %w", err)
	}
	return pins, nil
}
