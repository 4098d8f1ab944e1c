// AngelaMos | 2026
// repository.go

package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
)

const tagColumns = `id, keyword, created_at`

type Repository interface {
	All(ctx context.Context) ([]Tag, error)
	Create(ctx context.Context, t *Tag) error
	// FindOrCreate fills t from the stored tag with the same keyword,
	// inserting t first when there is none.
	FindOrCreate(ctx context.Context, t *Tag) error
	Link(ctx context.Context, l *Link) error
	TagsOfPin(ctx context.Context, pinID string) ([]Tag, error)
	Unlink(ctx context.Context, pinID, tagID string) error
	Restore(ctx context.Context, pinID, tagID string) error
	CountKeywords(ctx context.Context, keywords []string) (int, error)
	PinsWithAllKeywords(ctx context.Context, scope pin.Scope, keywords []string) ([]pin.Pin, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) All(ctx context.Context) ([]Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags ORDER BY keyword`

	tags := []Tag{}
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *repository) Create(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (id, keyword)
		VALUES ($1, $2)
		RETURNING ` + tagColumns

	err := r.db.GetContext(ctx, t, query, t.ID, t.Keyword)
	if core.IsUniqueViolation(err, "tags_keyword_key") {
		return ErrTagExists
	}
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

func (r *repository) FindOrCreate(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (id, keyword)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT tags_keyword_key DO UPDATE
		SET keyword = EXCLUDED.keyword
		RETURNING ` + tagColumns

	if err := r.db.GetContext(ctx, t, query, t.ID, t.Keyword); err != nil {
		return fmt.Errorf("find or create tag: %w", err)
	}
	return nil
}

// Link inserts l or revives the deleted link between the same pin and tag.
// A live link yields ErrAlreadyLinked.
func (r *repository) Link(ctx context.Context, l *Link) error {
	query := `
		INSERT INTO pin_tags (id, pin_id, tag_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT pin_tags_pin_tag_key DO UPDATE
		SET is_deleted = false, updated_at = NOW()
		WHERE pin_tags.is_deleted = true
		RETURNING id, pin_id, tag_id, is_deleted`

	err := r.db.GetContext(ctx, l, query, l.ID, l.PinID, l.TagID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyLinked
	}
	if err != nil {
		return fmt.Errorf("link tag: %w", err)
	}

	return nil
}

func (r *repository) TagsOfPin(ctx context.Context, pinID string) ([]Tag, error) {
	query := `
		SELECT t.id, t.keyword, t.created_at
		FROM pin_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.pin_id = $1 AND pt.is_deleted = false
		ORDER BY t.keyword`

	tags := []Tag{}
	if err := r.db.SelectContext(ctx, &tags, query, pinID); err != nil {
		return nil, fmt.Errorf("list pin tags: %w", err)
	}
	return tags, nil
}

// Unlink is idempotent for a link that is already deleted.
func (r *repository) Unlink(ctx context.Context, pinID, tagID string) error {
	query := `
		UPDATE pin_tags
		SET is_deleted = true, updated_at = NOW()
		WHERE pin_id = $1 AND tag_id = $2`

	result, err := r.db.ExecContext(ctx, query, pinID, tagID)
	if err != nil {
		return fmt.Errorf("unlink tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unlink tag: %w", err)
	}
	if rows == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// Restore revives a deleted link. It reports ErrAlreadyLinked for a live
// link and ErrLinkNotFound when the pin and tag were never linked.
func (r *repository) Restore(ctx context.Context, pinID, tagID string) error {
	query := `
		WITH prior AS (
			SELECT id, is_deleted FROM pin_tags
			WHERE pin_id = $1 AND tag_id = $2
			FOR UPDATE
		), revived AS (
			UPDATE pin_tags pt
			SET is_deleted = false, updated_at = NOW()
			FROM prior
			WHERE pt.id = prior.id AND prior.is_deleted = true
			RETURNING pt.id
		)
		SELECT is_deleted FROM prior`

	var wasDeleted bool
	err := r.db.GetContext(ctx, &wasDeleted, query, pinID, tagID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrLinkNotFound
	}
	if err != nil {
		return fmt.Errorf("restore tag link: %w", err)
	}
	if !wasDeleted {
		return ErrAlreadyLinked
	}

	return nil
}

func (r *repository) CountKeywords(ctx context.Context, keywords []string) (int, error) {
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM tags WHERE keyword IN (?)`, keywords)
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}

	var n int
	if err := r.db.GetContext(ctx, &n, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

// PinsWithAllKeywords returns the pins scope can see that carry a live link
// to every keyword, newest first.
func (r *repository) PinsWithAllKeywords(
	ctx context.Context,
	scope pin.Scope,
	keywords []string,
) ([]pin.Pin, error) {
	inner, args, err := sqlx.In(`
		SELECT pt.pin_id
		FROM pin_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.is_deleted = false AND t.keyword IN (?)
		GROUP BY pt.pin_id
		HAVING COUNT(DISTINCT pt.tag_id) = ?`, keywords, int64(len(keywords)))
	if err != nil {
		return nil, fmt.Errorf("filter pins by tags: %w", err)
	}

	clause, scopeArgs := scope.Clause("p", len(args)+1)
	query := `SELECT ` + pin.Columns + ` FROM pins p
		WHERE p.id IN (` + sqlx.Rebind(sqlx.DOLLAR, inner) + `) AND ` + clause + `
		ORDER BY p.created_at DESC, p.id`

	pins := []pin.Pin{}
	if err := r.db.SelectContext(ctx, &pins, query, append(args, scopeArgs...)...); err != nil {
		return nil, fmt.Errorf("filter pins by tags: %w", err)
	}
	return pins, nil
}
