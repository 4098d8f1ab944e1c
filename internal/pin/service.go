// AngelaMos | 2026
// service.go

package pin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
)

var (
	ErrPinNotFound   = fmt.Errorf("pin: %w", core.ErrNotFound)
	ErrOwnerNotFound = fmt.Errorf("owner: %w", core.ErrNotFound)
	ErrNotOwner      = fmt.Errorf("pin: %w", core.ErrForbidden)
	ErrInvalidInput  = fmt.Errorf("pin: %w", core.ErrInvalidInput)
)

type OwnerFinder interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Limits struct {
	DefaultRadius float64
	MaxRadius     float64
	MaxContentLen int
}

type Service struct {
	repo   Repository
	owners OwnerFinder
	limits Limits
}

func NewService(repo Repository, owners OwnerFinder, limits Limits) *Service {
	return &Service{repo: repo, owners: owners, limits: limits}
}

func (s *Service) DefaultRadius() float64 {
	return s.limits.DefaultRadius
}

func (s *Service) Create(
	ctx context.Context,
	actor user.Actor,
	lat, lon float64,
	content string,
) (*Pin, error) {
	if !actor.IsAuthenticated() {
		return nil, core.ErrUnauthorized
	}

	content, err := s.cleanContent(content)
	if err != nil {
		return nil, err
	}

	p := &Pin{
		ID:        uuid.New().String(),
		UserID:    actor.ID(),
		Latitude:  lat,
		Longitude: lon,
		Content:   content,
		IsPublic:  true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, actor user.Actor, id string) (*Pin, error) {
	if !core.IsUUID(id) {
		return nil, ErrPinNotFound
	}

	p, err := s.repo.FindByID(ctx, ScopeFor(actor), id)
	return p, notFoundAs(err, ErrPinNotFound)
}

func (s *Service) WithinRadius(
	ctx context.Context,
	actor user.Actor,
	lat, lon, radius float64,
) ([]Pin, error) {
	if radius <= 0 || radius > s.limits.MaxRadius {
		return nil, fmt.Errorf("radius %.0f out of range: %w", radius, ErrInvalidInput)
	}

	ctx, span := core.StartSpan(ctx, "pin.within_radius",
		attribute.Float64("pin.radius", radius),
		attribute.Bool("actor.anonymous", !actor.IsAuthenticated()),
	)
	defer span.End()

	return s.repo.FindWithinRadius(ctx, ScopeFor(actor), lat, lon, radius)
}

func (s *Service) WithinBounds(ctx context.Context, actor user.Actor, b Bounds) ([]Pin, error) {
	if b.LatMin > b.LatMax || b.LonMin > b.LonMax {
		return nil, fmt.Errorf("inverted bounds: %w", ErrInvalidInput)
	}

	return s.repo.FindWithinBounds(ctx, ScopeFor(actor), b)
}

func (s *Service) ByOwner(ctx context.Context, actor user.Actor, ownerID string) ([]Pin, error) {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	return s.repo.FindByOwner(ctx, ScopeFor(actor), ownerID)
}

func (s *Service) ByOwnerAndMonth(
	ctx context.Context,
	actor user.Actor,
	ownerID string,
	year int,
	month time.Month,
) ([]Pin, error) {
	if month < time.January || month > time.December || year < 1 || year > 9999 {
		return nil, fmt.Errorf("year %d month %d: %w", year, month, ErrInvalidInput)
	}

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	return s.repo.FindByOwnerAndMonth(ctx, ScopeFor(actor), ownerID, year, month)
}

func (s *Service) All(ctx context.Context, actor user.Actor) ([]Pin, error) {
	return s.repo.FindAll(ctx, ScopeFor(actor))
}

// Mine splits the actor's own live pins by visibility.
func (s *Service) Mine(ctx context.Context, actor user.Actor) (public, private []Pin, err error) {
	if !actor.IsAuthenticated() {
		return nil, nil, core.ErrUnauthorized
	}

	pins, err := s.repo.FindByOwner(ctx, ScopeFor(actor), actor.ID())
	if err != nil {
		return nil, nil, err
	}

	public, private = []Pin{}, []Pin{}
	for _, p := range pins {
		if p.IsPublic {
			public = append(public, p)
		} else {
			private = append(private, p)
		}
	}

	return public, private, nil
}

func (s *Service) UpdateContent(
	ctx context.Context,
	actor user.Actor,
	id, content string,
) (*Pin, error) {
	content, err := s.cleanContent(content)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeWrite(ctx, actor, id); err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateContent(ctx, id, actor.ID(), content)
	return p, notFoundAs(err, ErrPinNotFound)
}

func (s *Service) TogglePublic(ctx context.Context, actor user.Actor, id string) (*Pin, error) {
	if err := s.authorizeWrite(ctx, actor, id); err != nil {
		return nil, err
	}

	p, err := s.repo.TogglePublic(ctx, id, actor.ID())
	return p, notFoundAs(err, ErrPinNotFound)
}

func (s *Service) Delete(ctx context.Context, actor user.Actor, id string) error {
	if err := s.authorizeWrite(ctx, actor, id); err != nil {
		return err
	}

	return notFoundAs(s.repo.SoftDelete(ctx, id, actor.ID()), ErrPinNotFound)
}

// authorizeWrite hides pins the actor cannot see and rejects visible pins
// the actor does not own.
func (s *Service) authorizeWrite(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAuthenticated() {
		return core.ErrUnauthorized
	}
	if !core.IsUUID(id) {
		return ErrPinNotFound
	}

	p, err := s.repo.FindByID(ctx, ScopeFor(actor), id)
	if err != nil {
		return notFoundAs(err, ErrPinNotFound)
	}

	if p.UserID != actor.ID() {
		return ErrNotOwner
	}

	return nil
}

func (s *Service) requireOwner(ctx context.Context, ownerID string) error {
	if !core.IsUUID(ownerID) {
		return ErrOwnerNotFound
	}
	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		return notFoundAs(err, ErrOwnerNotFound)
	}
	return nil
}

func (s *Service) cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("empty content: %w", ErrInvalidInput)
	}
	if s.limits.MaxContentLen > 0 && len([]rune(content)) > s.limits.MaxContentLen {
		return "", fmt.Errorf("content longer than %d: %w", s.limits.MaxContentLen, ErrInvalidInput)
	}
	return content, nil
}

func notFoundAs(err, target error) error {
	if errors.Is(err, core.ErrNotFound) {
		return target
	}
	return err
}
