// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pinco-dev/pinco/internal/core"
)

const (
	emailConstraint  = "users_email_key"
	nameConstraint   = "users_name_key"
	apiKeyConstraint = "users_api_key_key"
)

var (
	ErrEmailTaken  = fmt.Errorf("email: %w", core.ErrDuplicateKey)
	ErrNameTaken   = fmt.Errorf("name: %w", core.ErrDuplicateKey)
	ErrAPIKeyTaken = fmt.Errorf("api key: %w", core.ErrDuplicateKey)
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*User, error)
	SetAPIKey(ctx context.Context, id, apiKey string) error
	UpdateProfile(ctx context.Context, id, name, passwordHash string) error
	SoftDelete(ctx context.Context, id string) error
	SoftDeletePins(ctx context.Context, userID string) error
	RemoveLikes(ctx context.Context, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, name, COALESCE(api_key, '') AS api_key,
		       is_deleted, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, api_key)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.APIKey,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapUniqueError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND is_deleted = false`

	return r.getOne(ctx, "get user", query, id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND is_deleted = false`

	return r.getOne(ctx, "get user by email", query, email)
}

// GetByAPIKey is an exact match; a deleted account never resolves.
func (r *repository) GetByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE api_key = $1 AND is_deleted = false`

	return r.getOne(ctx, "get user by api key", query, apiKey)
}

func (r *repository) getOne(
	ctx context.Context,
	op, query string,
	arg any,
) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) SetAPIKey(ctx context.Context, id, apiKey string) error {
	query := `
		UPDATE users
		SET api_key = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false`

	result, err := r.db.ExecContext(ctx, query, id, apiKey)
	if err != nil {
		return fmt.Errorf("set api key: %w", mapUniqueError(err))
	}

	return requireRow(result, "set api key")
}

func (r *repository) UpdateProfile(
	ctx context.Context,
	id, name, passwordHash string,
) error {
	query := `
		UPDATE users
		SET name = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false`

	result, err := r.db.ExecContext(ctx, query, id, name, passwordHash)
	if err != nil {
		return fmt.Errorf("update profile: %w", mapUniqueError(err))
	}

	return requireRow(result, "update profile")
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return requireRow(result, "delete user")
}

func (r *repository) SoftDeletePins(ctx context.Context, userID string) error {
	query := `
		UPDATE pins
		SET is_deleted = true, updated_at = NOW()
		WHERE user_id = $1 AND is_deleted = false`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user pins: %w", err)
	}

	return nil
}

// RemoveLikes drops every like the user gave and keeps the liked pins'
// counters in step.
func (r *repository) RemoveLikes(ctx context.Context, userID string) error {
	decrement := `
		UPDATE pins
		SET like_count = GREATEST(like_count - 1, 0)
		WHERE id IN (SELECT pin_id FROM likes WHERE user_id = $1)`

	if _, err := r.db.ExecContext(ctx, decrement, userID); err != nil {
		return fmt.Errorf("decrement like counts: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user likes: %w", err)
	}

	return nil
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func mapUniqueError(err error) error {
	switch {
	case core.IsUniqueViolation(err, emailConstraint):
		return ErrEmailTaken
	case core.IsUniqueViolation(err, nameConstraint):
		return ErrNameTaken
	case core.IsUniqueViolation(err, apiKeyConstraint):
		return ErrAPIKeyTaken
	case core.IsUniqueViolation(err, ""):
		return core.ErrDuplicateKey
	default:
		return err
	}
}
