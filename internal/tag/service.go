// AngelaMos | 2026
// service.go

package tag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/user"
)

// PinReader resolves a pin in the actor's scope. *pin.Service satisfies it.
type PinReader interface {
	Get(ctx context.Context, actor user.Actor, id string) (*pin.Pin, error)
}

type Service struct {
	repo    Repository
	db      core.TxBeginner
	newRepo func(core.DBTX) Repository
	pins    PinReader
}

// NewService wires the service. A nil db links tags without a transaction.
func NewService(repo Repository, db core.TxBeginner, pins PinReader) *Service {
	return &Service{
		repo:    repo,
		db:      db,
		newRepo: NewRepository,
		pins:    pins,
	}
}

func (s *Service) All(ctx context.Context) ([]Tag, error) {
	return s.repo.All(ctx)
}

func (s *Service) Create(ctx context.Context, actor user.Actor, keyword string) (*Tag, error) {
	if !actor.IsAuthenticated() {
		return nil, core.ErrUnauthorized
	}

	keyword, err := cleanKeyword(keyword)
	if err != nil {
		return nil, err
	}

	t := &Tag{ID: uuid.New().String(), Keyword: keyword}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddToPin links keyword to a pin the actor owns, creating the tag on first
// use. Relinking a removed tag revives the old link.
func (s *Service) AddToPin(ctx context.Context, actor user.Actor, pinID, keyword string) (*Tag, error) {
	keyword, err := cleanKeyword(keyword)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeWrite(ctx, actor, pinID); err != nil {
		return nil, err
	}

	t := &Tag{ID: uuid.New().String(), Keyword: keyword}
	err = s.run(ctx, func(repo Repository) error {
		if err := repo.FindOrCreate(ctx, t); err != nil {
			return err
		}
		return repo.Link(ctx, &Link{ID: uuid.New().String(), PinID: pinID, TagID: t.ID})
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) OfPin(ctx context.Context, actor user.Actor, pinID string) ([]Tag, error) {
	if !core.IsUUID(pinID) {
		return nil, pin.ErrPinNotFound
	}
	if _, err := s.pins.Get(ctx, actor, pinID); err != nil {
		return nil, err
	}

	return s.repo.TagsOfPin(ctx, pinID)
}

func (s *Service) RemoveFromPin(ctx context.Context, actor user.Actor, pinID, tagID string) error {
	if err := s.authorizeWrite(ctx, actor, pinID); err != nil {
		return err
	}
	if !core.IsUUID(tagID) {
		return ErrLinkNotFound
	}

	return s.repo.Unlink(ctx, pinID, tagID)
}

func (s *Service) RestoreOnPin(ctx context.Context, actor user.Actor, pinID, tagID string) error {
	if err := s.authorizeWrite(ctx, actor, pinID); err != nil {
		return err
	}
	if !core.IsUUID(tagID) {
		return ErrLinkNotFound
	}

	return s.repo.Restore(ctx, pinID, tagID)
}

// Filter returns the pins the actor can see that carry every keyword. An
// unknown keyword is ErrTagNotFound rather than an empty result.
func (s *Service) Filter(ctx context.Context, actor user.Actor, keywords []string) ([]pin.Pin, error) {
	keywords, err := cleanKeywords(keywords)
	if err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "tag.filter",
		attribute.Int("tag.keywords", len(keywords)),
		attribute.Bool("actor.anonymous", !actor.IsAuthenticated()),
	)
	defer span.End()

	known, err := s.repo.CountKeywords(ctx, keywords)
	if err != nil {
		return nil, err
	}
	if known < len(keywords) {
		return nil, ErrTagNotFound
	}

	return s.repo.PinsWithAllKeywords(ctx, pin.ScopeFor(actor), keywords)
}

// authorizeWrite hides pins the actor cannot see and rejects visible pins
// the actor does not own.
func (s *Service) authorizeWrite(ctx context.Context, actor user.Actor, pinID string) error {
	if !actor.IsAuthenticated() {
		return core.ErrUnauthorized
	}
	if !core.IsUUID(pinID) {
		return pin.ErrPinNotFound
	}

	p, err := s.pins.Get(ctx, actor, pinID)
	if err != nil {
		return err
	}
	if p.UserID != actor.ID() {
		return pin.ErrNotOwner
	}

	return nil
}

func (s *Service) run(ctx context.Context, fn func(Repository) error) error {
	if s.db == nil {
		return fn(s.repo)
	}

	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(s.newRepo(tx))
	})
}

func cleanKeyword(keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", fmt.Errorf("empty keyword: %w", ErrInvalidKeyword)
	}
	if utf8.RuneCountInString(keyword) > MaxKeywordLen {
		return "", fmt.Errorf("keyword longer than %d: %w", MaxKeywordLen, ErrInvalidKeyword)
	}
	return keyword, nil
}

// cleanKeywords trims, drops blanks and removes duplicates, keeping the
// first occurrence order.
func cleanKeywords(keywords []string) ([]string, error) {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))

	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if utf8.RuneCountInString(kw) > MaxKeywordLen {
			return nil, fmt.Errorf("keyword longer than %d: %w", MaxKeywordLen, ErrInvalidKeyword)
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	if len(out) == 0 {
		return nil, ErrNoKeywords
	}
	return out, nil
}
