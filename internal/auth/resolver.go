// AngelaMos | 2026
// resolver.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
)

// Credentials are the raw values a request presented. Either may be empty.
type Credentials struct {
	APIKey      string
	AccessToken string
}

func (c Credentials) Empty() bool {
	return c.APIKey == "" && c.AccessToken == ""
}

// Resolution is the outcome of a successful resolve. ReissuedToken is set only
// when an invalid access token was replaced through the API key.
type Resolution struct {
	Actor         user.Actor
	AccessValid   bool
	ReissuedToken string
}

type UserFinder interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*user.User, error)
}

type AccessTokenCodec interface {
	CreateAccessToken(claims AccessTokenClaims) (string, error)
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

type Resolver struct {
	users  UserFinder
	tokens AccessTokenCodec
	logger *slog.Logger
}

func NewResolver(users UserFinder, tokens AccessTokenCodec, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{users: users, tokens: tokens, logger: logger}
}

// Resolve maps credentials to an actor. It returns core.ErrInvalidAPIKey or
// core.ErrInvalidAccessToken for rejected credentials; any other error comes
// from storage or the context and must not be reported as an auth failure.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (Resolution, error) {
	if creds.Empty() {
		return Resolution{Actor: user.Anonymous()}, nil
	}

	if creds.AccessToken != "" {
		u, err := r.userFromToken(ctx, creds.AccessToken)
		if err != nil {
			return Resolution{}, err
		}
		if u != nil {
			return Resolution{Actor: user.Authenticated(*u), AccessValid: true}, nil
		}
	}

	if creds.APIKey == "" {
		core.AddSpanEvent(ctx, "auth.access_token_rejected")
		return Resolution{}, fmt.Errorf("resolve actor: %w", core.ErrInvalidAccessToken)
	}

	u, err := r.users.GetByAPIKey(ctx, creds.APIKey)
	if errors.Is(err, core.ErrNotFound) {
		core.AddSpanEvent(ctx, "auth.api_key_rejected")
		return Resolution{}, fmt.Errorf("resolve actor: %w", core.ErrInvalidAPIKey)
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve actor: %w", err)
	}

	res := Resolution{Actor: user.Authenticated(*u)}

	if creds.AccessToken != "" {
		res.ReissuedToken = r.reissue(ctx, u)
	}

	return res, nil
}

// userFromToken returns nil without error when the token is invalid or its
// subject no longer resolves; both fall through to the API key.
func (r *Resolver) userFromToken(ctx context.Context, token string) (*user.User, error) {
	claims, err := r.tokens.VerifyAccessToken(ctx, token)
	if errors.Is(err, core.ErrTokenInvalid) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}

	u, err := r.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return u, nil
}

func (r *Resolver) reissue(ctx context.Context, u *user.User) string {
	token, err := r.tokens.CreateAccessToken(ClaimsFor(*u))
	if err != nil {
		r.logger.ErrorContext(ctx, "access token reissue failed",
			"user_id", u.ID,
			"error", err,
		)
		core.SetSpanError(ctx, err)
		return ""
	}

	core.AddSpanEvent(ctx, "auth.access_token_reissued",
		attribute.String("user.id", u.ID),
	)

	return token
}

func ClaimsFor(u user.User) AccessTokenClaims {
	return AccessTokenClaims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role(),
	}
}
