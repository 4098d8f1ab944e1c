// AngelaMos | 2026
// repository.go

package pin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pinco-dev/pinco/internal/core"
)

type Repository interface {
	FindByID(ctx context.Context, scope Scope, id string) (*Pin, error)
	FindWithinRadius(ctx context.Context, scope Scope, lat, lon, radius float64) ([]Pin, error)
	FindWithinBounds(ctx context.Context, scope Scope, b Bounds) ([]Pin, error)
	FindByOwner(ctx context.Context, scope Scope, ownerID string) ([]Pin, error)
	FindByOwnerAndMonth(ctx context.Context, scope Scope, ownerID string, year int, month time.Month) ([]Pin, error)
	FindAll(ctx context.Context, scope Scope) ([]Pin, error)

	Create(ctx context.Context, p *Pin) error
	UpdateContent(ctx context.Context, id, ownerID, content string) (*Pin, error)
	TogglePublic(ctx context.Context, id, ownerID string) (*Pin, error)
	SoftDelete(ctx context.Context, id, ownerID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const orderNewest = ` ORDER BY p.created_at DESC, p.id`

// scoped builds "SELECT ... WHERE <pred> AND <scope>" with the scope
// placeholder numbered after args.
func scoped(scope Scope, predicate string, args ...any) (string, []any) {
	clause, scopeArgs := scope.Clause("p", len(args)+1)

	query := `SELECT ` + Columns + ` FROM pins p WHERE `
	if predicate != "" {
		query += predicate + ` AND `
	}
	query += clause

	return query, append(args, scopeArgs...)
}

func (r *repository) FindByID(ctx context.Context, scope Scope, id string) (*Pin, error) {
	query, args := scoped(scope, `p.id = $1`, id)

	var p Pin
	err := r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get pin: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pin: %w", err)
	}

	return &p, nil
}

// FindWithinRadius measures great-circle distance in metres on the
// geography type.
func (r *repository) FindWithinRadius(
	ctx context.Context,
	scope Scope,
	lat, lon, radius float64,
) ([]Pin, error) {
	query, args := scoped(scope,
		`ST_DWithin(p.point, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)`,
		lon, lat, radius,
	)

	return r.list(ctx, "find pins within radius", query+orderNewest, args)
}

func (r *repository) FindWithinBounds(ctx context.Context, scope Scope, b Bounds) ([]Pin, error) {
	query, args := scoped(scope,
		`p.point::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)`,
		b.LonMin, b.LatMin, b.LonMax, b.LatMax,
	)

	return r.list(ctx, "find pins within bounds", query+orderNewest, args)
}

func (r *repository) FindByOwner(ctx context.Context, scope Scope, ownerID string) ([]Pin, error) {
	query, args := scoped(scope, `p.user_id = $1`, ownerID)

	return r.list(ctx, "find pins by owner", query+orderNewest, args)
}

// FindByOwnerAndMonth selects pins created within the UTC calendar month.
func (r *repository) FindByOwnerAndMonth(
	ctx context.Context,
	scope Scope,
	ownerID string,
	year int,
	month time.Month,
) ([]Pin, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query, args := scoped(scope,
		`p.user_id = $1 AND p.created_at >= $2 AND p.created_at < $3`,
		ownerID, start, end,
	)

	return r.list(ctx, "find pins by owner and month", query+orderNewest, args)
}

func (r *repository) FindAll(ctx context.Context, scope Scope) ([]Pin, error) {
	query, args := scoped(scope, "")

	return r.list(ctx, "find all pins", query+orderNewest, args)
}

func (r *repository) list(ctx context.Context, op, query string, args []any) ([]Pin, error) {
	pins := []Pin{}
	if err := r.db.SelectContext(ctx, &pins, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pins, nil
}

func (r *repository) Create(ctx context.Context, p *Pin) error {
	query := `
		WITH inserted AS (
			INSERT INTO pins (id, user_id, point, content, is_public)
			VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6)
			RETURNING *
		)
		SELECT ` + Columns + ` FROM inserted p`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.UserID,
		p.Longitude,
		p.Latitude,
		p.Content,
		p.IsPublic,
	)
	if err != nil {
		return fmt.Errorf("create pin: %w", err)
	}

	return nil
}

// The owner-guarded writes match nothing when the pin is gone or belongs to
// someone else; both surface as core.ErrNotFound.

func (r *repository) UpdateContent(ctx context.Context, id, ownerID, content string) (*Pin, error) {
	return r.mutate(ctx, "update pin content", `content = $3`, id, ownerID, content)
}

func (r *repository) TogglePublic(ctx context.Context, id, ownerID string) (*Pin, error) {
	return r.mutate(ctx, "toggle pin visibility", `is_public = NOT is_public`, id, ownerID)
}

func (r *repository) SoftDelete(ctx context.Context, id, ownerID string) error {
	_, err := r.mutate(ctx, "delete pin", `is_deleted = true`, id, ownerID)
	return err
}

func (r *repository) mutate(
	ctx context.Context,
	op, set string,
	args ...any,
) (*Pin, error) {
	query := `
		WITH updated AS (
			UPDATE pins
			SET ` + set + `, updated_at = NOW()
			WHERE id = $1 AND user_id = $2 AND is_deleted = false
			RETURNING *
		)
		SELECT ` + Columns + ` FROM updated p`

	var p Pin
	err := r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}
