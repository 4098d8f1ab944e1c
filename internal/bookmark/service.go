// AngelaMos | 2026
// service.go

package bookmark

import (
	"context"

	"github.com/google/uuid"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/user"
)

// PinReader resolves a pin in the actor's scope. *pin.Service satisfies it.
type PinReader interface {
	Get(ctx context.Context, actor user.Actor, id string) (*pin.Pin, error)
}

type Service struct {
	repo Repository
	pins PinReader
}

func NewService(repo Repository, pins PinReader) *Service {
	return &Service{repo: repo, pins: pins}
}

func (s *Service) Add(ctx context.Context, actor user.Actor, pinID string) (*Entry, error) {
	if !actor.IsAuthenticated() {
		return nil, core.ErrUnauthorized
	}
	if !core.IsUUID(pinID) {
		return nil, pin.ErrPinNotFound
	}

	p, err := s.pins.Get(ctx, actor, pinID)
	if err != nil {
		return nil, err
	}

	b := &Bookmark{
		ID:     uuid.New().String(),
		UserID: actor.ID(),
		PinID:  p.ID,
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, err
	}

	return &Entry{BookmarkID: b.ID, BookmarkedAt: b.CreatedAt, Pin: *p}, nil
}

func (s *Service) List(ctx context.Context, actor user.Actor) ([]Entry, error) {
	if !actor.IsAuthenticated() {
		return nil, core.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, pin.ScopeFor(actor), actor.ID())
}

func (s *Service) Remove(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAuthenticated() {
		return core.ErrUnauthorized
	}
	if !core.IsUUID(id) {
		return ErrBookmarkNotFound
	}
	return s.repo.SoftDelete(ctx, id, actor.ID())
}

func (s *Service) Restore(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAuthenticated() {
		return core.ErrUnauthorized
	}
	if !core.IsUUID(id) {
		return ErrBookmarkNotFound
	}
	return s.repo.Restore(ctx, id, actor.ID())
}
