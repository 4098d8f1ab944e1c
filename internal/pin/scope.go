// AngelaMos | 2026
// scope.go

package pin

import (
	"fmt"

	"github.com/pinco-dev/pinco/internal/user"
)

// Scope is the visibility rule every pin read applies. The anonymous scope
// sees public live pins; an actor scope also sees the actor's own live pins.
type Scope struct {
	actorID string
}

func ScopeFor(actor user.Actor) Scope {
	return Scope{actorID: actor.ID()}
}

func AnonymousScope() Scope {
	return Scope{}
}

func (s Scope) IsAnonymous() bool {
	return s.actorID == ""
}

func (s Scope) ActorID() string {
	return s.actorID
}

// Clause renders the predicate for the pins table aliased as alias. The
// actor id, if any, binds to placeholder $next.
func (s Scope) Clause(alias string, next int) (string, []any) {
	if s.IsAnonymous() {
		return fmt.Sprintf("%[1]s.is_deleted = false AND %[1]s.is_public = true", alias), nil
	}

	return fmt.Sprintf(
		"%[1]s.is_deleted = false AND (%[1]s.user_id = $%[2]d OR %[1]s.is_public = true)",
		alias, next,
	), []any{s.actorID}
}

// Permits mirrors Clause for a pin already in memory.
func (s Scope) Permits(p Pin) bool {
	if p.IsDeleted {
		return false
	}
	return p.IsPublic || (!s.IsAnonymous() && p.UserID == s.actorID)
}

// Filter keeps the pins s permits.
func (s Scope) Filter(pins []Pin) []Pin {
	out := make([]Pin, 0, len(pins))
	for _, p := range pins {
		if s.Permits(p) {
			out = append(out, p)
		}
	}
	return out
}
