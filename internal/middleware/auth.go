// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pinco-dev/pinco/internal/auth"
	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/metrics"
	"github.com/pinco-dev/pinco/internal/user"
)

const ruleKey contextKey = "route_rule"

type ActorResolver interface {
	Resolve(ctx context.Context, creds auth.Credentials) (auth.Resolution, error)
}

type AuthRecorder interface {
	AuthOutcome(outcome string)
	TokenReissued()
}

type AuthConfig struct {
	Resolver ActorResolver
	Policy   Policy
	Metrics  AuthRecorder
	Logger   *slog.Logger
}

// Authenticator classifies the route, resolves the actor from the request's
// credentials and binds it to the context. Rejected credentials end the
// chain with a 401 envelope. A reissued access token is written before the
// handler runs.
func Authenticator(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = (*metrics.Metrics)(nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := cfg.Policy.Classify(r)
			ctx := context.WithValue(r.Context(), ruleKey, rule)

			if rule.Access == AccessSkip {
				cfg.Metrics.AuthOutcome(metrics.OutcomeSkipped)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			creds, err := ExtractCredentials(r)
			if err != nil {
				cfg.Metrics.AuthOutcome(metrics.OutcomeMalformed)
				cfg.Logger.DebugContext(ctx, "malformed authorization header",
					"path", r.URL.Path,
				)
				core.JSONError(w, core.InvalidAccessTokenError())
				return
			}

			res, err := cfg.Resolver.Resolve(ctx, creds)
			if err != nil {
				writeResolveError(w, r, cfg, err)
				return
			}

			if ctx.Err() != nil {
				return
			}

			if res.ReissuedToken != "" {
				auth.WriteAccessToken(w, r, res.ReissuedToken)
				cfg.Metrics.TokenReissued()
			}

			cfg.Metrics.AuthOutcome(outcomeFor(res))

			ctx = user.WithActor(ctx, res.Actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeResolveError(w http.ResponseWriter, r *http.Request, cfg AuthConfig, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, core.ErrInvalidAPIKey):
		cfg.Metrics.AuthOutcome(metrics.OutcomeInvalidAPIKey)
		cfg.Logger.DebugContext(ctx, "api key rejected", "path", r.URL.Path)
		core.JSONError(w, core.InvalidAPIKeyError())
	case errors.Is(err, core.ErrInvalidAccessToken):
		cfg.Metrics.AuthOutcome(metrics.OutcomeInvalidToken)
		cfg.Logger.DebugContext(ctx, "access token rejected", "path", r.URL.Path)
		core.JSONError(w, core.InvalidAccessTokenError())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		cfg.Logger.DebugContext(ctx, "request cancelled during authentication",
			"path", r.URL.Path,
		)
	default:
		cfg.Metrics.AuthOutcome(metrics.OutcomeResolveFailure)
		core.InternalServerError(w, err)
	}
}

func outcomeFor(res auth.Resolution) string {
	switch {
	case !res.Actor.IsAuthenticated():
		return metrics.OutcomeAnonymous
	case res.AccessValid:
		return metrics.OutcomeToken
	default:
		return metrics.OutcomeAPIKey
	}
}

// Authorize enforces the route rule Authenticator recorded. Protected routes
// need an authenticated actor holding the rule's role.
func Authorize(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := r.Context().Value(ruleKey).(Rule)
			if !ok {
				rule = policy.Classify(r)
			}

			if rule.Access != AccessProtected {
				next.ServeHTTP(w, r)
				return
			}

			actor := user.ActorFromContext(r.Context())
			if !actor.IsAuthenticated() {
				core.JSONError(w, core.AuthRequiredError())
				return
			}

			if rule.Role != "" && !actor.HasRole(rule.Role) {
				core.JSONError(w, core.AccessDeniedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
