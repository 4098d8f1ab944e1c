// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pinco-dev/pinco/internal/core"
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrNoChanges        = errors.New("no fields to update")
)

type Service struct {
	repo    Repository
	db      core.TxBeginner
	newRepo func(core.DBTX) Repository
}

// NewService wires the service. db opens the transaction used for account
// deletion; nil disables it and Delete runs on repo directly.
func NewService(repo Repository, db core.TxBeginner) *Service {
	return &Service{
		repo:    repo,
		db:      db,
		newRepo: NewRepository,
	}
}

func (s *Service) Info(actor Actor) (User, error) {
	u, ok := actor.User()
	if !ok {
		return User{}, fmt.Errorf("get info: %w", core.ErrUnauthorized)
	}
	return u, nil
}

func (s *Service) Edit(ctx context.Context, actor Actor, req EditRequest) error {
	current, ok := actor.User()
	if !ok {
		return fmt.Errorf("edit user: %w", core.ErrUnauthorized)
	}

	if !core.VerifyPasswordTimingSafe(req.Password, current.PasswordHash) {
		return fmt.Errorf("edit user: %w", ErrPasswordMismatch)
	}

	newName := strings.TrimSpace(req.NewUserName)
	nameChanged := newName != "" && newName != current.Name
	passwordChanged := req.NewPassword != "" &&
		!core.VerifyPasswordTimingSafe(req.NewPassword, current.PasswordHash)

	if !nameChanged && !passwordChanged {
		return fmt.Errorf("edit user: %w", ErrNoChanges)
	}

	name := current.Name
	if nameChanged {
		name = newName
	}

	hash := current.PasswordHash
	if passwordChanged {
		var err error
		if hash, err = core.HashPassword(req.NewPassword); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}

	return s.repo.UpdateProfile(ctx, current.ID, name, hash)
}

// Delete soft-deletes the account and its pins and withdraws its likes in
// one transaction.
func (s *Service) Delete(ctx context.Context, actor Actor, password string) error {
	current, ok := actor.User()
	if !ok {
		return fmt.Errorf("delete user: %w", core.ErrUnauthorized)
	}

	if !core.VerifyPasswordTimingSafe(password, current.PasswordHash) {
		return fmt.Errorf("delete user: %w", ErrPasswordMismatch)
	}

	if s.db == nil {
		return deleteAccount(ctx, s.repo, current.ID)
	}

	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return deleteAccount(ctx, s.newRepo(tx), current.ID)
	})
}

func deleteAccount(ctx context.Context, repo Repository, id string) error {
	if err := repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := repo.SoftDeletePins(ctx, id); err != nil {
		return err
	}
	return repo.RemoveLikes(ctx, id)
}
