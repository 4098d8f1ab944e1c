// AngelaMos | 2026
// actor.go

package user

import (
	"context"
)

// Actor is the principal a request runs as: either anonymous or a resolved,
// non-deleted user. The zero value is anonymous.
type Actor struct {
	user          User
	authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

func Authenticated(u User) Actor {
	return Actor{user: u, authenticated: true}
}

func (a Actor) User() (User, bool) {
	return a.user, a.authenticated
}

func (a Actor) IsAuthenticated() bool {
	return a.authenticated
}

// ID is empty for the anonymous actor.
func (a Actor) ID() string {
	if !a.authenticated {
		return ""
	}
	return a.user.ID
}

func (a Actor) HasRole(role string) bool {
	return a.authenticated && a.user.Role() == role
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the anonymous actor when none was bound.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Anonymous()
}
