// AngelaMos | 2026
// fakes_test.go

package pin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
)

// memRepo applies Scope.Permits in memory, so it behaves like the SQL
// repository for visibility purposes.
type memRepo struct {
	mu   sync.Mutex
	pins map[string]*Pin
	err  error
}

func newMemRepo(pins ...Pin) *memRepo {
	m := &memRepo{pins: map[string]*Pin{}}
	for _, p := range pins {
		m.pins[p.ID] = &p
	}
	return m
}

func (m *memRepo) filter(scope Scope, keep func(Pin) bool) ([]Pin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	out := []Pin{}
	for _, p := range m.pins {
		if scope.Permits(*p) && keep(*p) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) FindByID(_ context.Context, scope Scope, id string) (*Pin, error) {
	pins, err := m.filter(scope, func(p Pin) bool { return p.ID == id })
	if err != nil {
		return nil, err
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("get pin: %w", core.ErrNotFound)
	}
	return &pins[0], nil
}

func (m *memRepo) FindWithinRadius(_ context.Context, scope Scope, _, _, _ float64) ([]Pin, error) {
	return m.filter(scope, func(Pin) bool { return true })
}

func (m *memRepo) FindWithinBounds(_ context.Context, scope Scope, b Bounds) ([]Pin, error) {
	return m.filter(scope, func(p Pin) bool {
		return p.Latitude >= b.LatMin && p.Latitude <= b.LatMax &&
			p.Longitude >= b.LonMin && p.Longitude <= b.LonMax
	})
}

func (m *memRepo) FindByOwner(_ context.Context, scope Scope, ownerID string) ([]Pin, error) {
	return m.filter(scope, func(p Pin) bool { return p.UserID == ownerID })
}

func (m *memRepo) FindByOwnerAndMonth(
	_ context.Context,
	scope Scope,
	ownerID string,
	year int,
	month time.Month,
) ([]Pin, error) {
	return m.filter(scope, func(p Pin) bool {
		c := p.CreatedAt.UTC()
		return p.UserID == ownerID && c.Year() == year && c.Month() == month
	})
}

func (m *memRepo) FindAll(_ context.Context, scope Scope) ([]Pin, error) {
	return m.filter(scope, func(Pin) bool { return true })
}

func (m *memRepo) Create(_ context.Context, p *Pin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.pins[p.ID] = &cp
	return nil
}

func (m *memRepo) mutate(id, ownerID string, fn func(*Pin)) (*Pin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pins[id]
	if !ok || p.UserID != ownerID || p.IsDeleted {
		return nil, fmt.Errorf("mutate pin: %w", core.ErrNotFound)
	}
	fn(p)
	cp := *p
	return &cp, nil
}

func (m *memRepo) UpdateContent(_ context.Context, id, ownerID, content string) (*Pin, error) {
	return m.mutate(id, ownerID, func(p *Pin) { p.Content = content })
}

func (m *memRepo) TogglePublic(_ context.Context, id, ownerID string) (*Pin, error) {
	return m.mutate(id, ownerID, func(p *Pin) { p.IsPublic = !p.IsPublic })
}

func (m *memRepo) SoftDelete(_ context.Context, id, ownerID string) error {
	_, err := m.mutate(id, ownerID, func(p *Pin) { p.IsDeleted = true })
	return err
}

type memOwners map[string]user.User

func (m memOwners) GetByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := m[id]; ok {
		return &u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

const (
	ownerPublicPin  = "a0000000-0000-0000-0000-000000000001"
	ownerPrivatePin = "a0000000-0000-0000-0000-000000000002"
	ownerDeletedPin = "a0000000-0000-0000-0000-000000000003"
	otherPublicPin  = "b0000000-0000-0000-0000-000000000001"
	otherPrivatePin = "b0000000-0000-0000-0000-000000000002"
)

var testLimits = Limits{DefaultRadius: 1000, MaxRadius: 50000, MaxContentLen: 200}

func seeded() *memRepo {
	created := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	return newMemRepo(
		Pin{ID: ownerPublicPin, UserID: ownerID, IsPublic: true, Content: "a", Latitude: 37.5, Longitude: 127, CreatedAt: created},
		Pin{ID: ownerPrivatePin, UserID: ownerID, IsPublic: false, Content: "b", Latitude: 37.5, Longitude: 127, CreatedAt: created},
		Pin{ID: ownerDeletedPin, UserID: ownerID, IsPublic: true, IsDeleted: true, Content: "c", CreatedAt: created},
		Pin{ID: otherPublicPin, UserID: otherID, IsPublic: true, Content: "d", Latitude: 35.1, Longitude: 129, CreatedAt: created},
		Pin{ID: otherPrivatePin, UserID: otherID, IsPublic: false, Content: "e", Latitude: 35.1, Longitude: 129, CreatedAt: created},
	)
}

func newTestService(repo Repository) *Service {
	owners := memOwners{
		ownerID: {ID: ownerID, Name: "owner"},
		otherID: {ID: otherID, Name: "other"},
	}
	return NewService(repo, owners, testLimits)
}
