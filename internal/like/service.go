// AngelaMos | 2026
// service.go

package like

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/user"
)

type Status struct {
	IsLiked   bool `json:"isLiked"`
	LikeCount int  `json:"likeCount"`
}

type Service struct {
	repo    Repository
	db      core.TxBeginner
	newRepo func(core.DBTX) Repository
	users   pin.OwnerFinder
}

// NewService wires the service. A nil db runs likes without a transaction.
func NewService(repo Repository, db core.TxBeginner, users pin.OwnerFinder) *Service {
	return &Service{
		repo:    repo,
		db:      db,
		newRepo: NewRepository,
		users:   users,
	}
}

func (s *Service) Like(ctx context.Context, actor user.Actor, pinID string) (Status, error) {
	return s.set(ctx, actor, pinID, true)
}

func (s *Service) Unlike(ctx context.Context, actor user.Actor, pinID string) (Status, error) {
	return s.set(ctx, actor, pinID, false)
}

// set changes the like and refreshes the pin counter in one transaction.
// Only pins the actor can see are likeable.
func (s *Service) set(ctx context.Context, actor user.Actor, pinID string, liked bool) (Status, error) {
	if !actor.IsAuthenticated() {
		return Status{}, core.ErrUnauthorized
	}
	if !core.IsUUID(pinID) {
		return Status{}, pin.ErrPinNotFound
	}

	status := Status{IsLiked: liked}

	err := s.run(ctx, func(repo Repository) error {
		if err := repo.LockVisiblePin(ctx, pin.ScopeFor(actor), pinID); err != nil {
			return err
		}

		var err error
		if liked {
			err = repo.Add(ctx, actor.ID(), pinID)
		} else {
			err = repo.Remove(ctx, actor.ID(), pinID)
		}
		if err != nil {
			return err
		}

		status.LikeCount, err = repo.RefreshCount(ctx, pinID)
		return err
	})
	if err != nil {
		return Status{}, asPinError(err)
	}

	return status, nil
}

func (s *Service) Likers(ctx context.Context, actor user.Actor, pinID string) ([]Liker, error) {
	if !core.IsUUID(pinID) {
		return nil, pin.ErrPinNotFound
	}

	if err := s.repo.PinVisible(ctx, pin.ScopeFor(actor), pinID); err != nil {
		return nil, asPinError(err)
	}

	return s.repo.Likers(ctx, pinID)
}

// LikedPins lists what userID liked, narrowed to what actor may see.
func (s *Service) LikedPins(ctx context.Context, actor user.Actor, userID string) ([]pin.Pin, error) {
	if !core.IsUUID(userID) {
		return nil, pin.ErrOwnerNotFound
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return nil, pin.ErrOwnerNotFound
		}
		return nil, err
	}

	return s.repo.PinsLikedBy(ctx, pin.ScopeFor(actor), userID)
}

func (s *Service) run(ctx context.Context, fn func(Repository) error) error {
	if s.db == nil {
		return fn(s.repo)
	}

	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(s.newRepo(tx))
	})
}
