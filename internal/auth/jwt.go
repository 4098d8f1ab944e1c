// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/pinco-dev/pinco/internal/config"
	"github.com/pinco-dev/pinco/internal/core"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	claimType  = "type"
	claimEmail = "email"
	claimName  = "name"
	claimRole  = "role"
)

type AccessTokenClaims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// JWTManager signs and verifies HS256 tokens with one shared secret.
type JWTManager struct {
	key    jwk.Key
	config config.JWTConfig
	now    func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing secret: %w", err)
	}

	return &JWTManager{
		key:    key,
		config: cfg,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of m that reads time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}

func (m *JWTManager) CreateAccessToken(claims AccessTokenClaims) (string, error) {
	now := m.now()

	token, err := m.builder(claims.UserID, now, m.config.AccessTokenExpire).
		Claim(claimEmail, claims.Email).
		Claim(claimName, claims.Name).
		Claim(claimRole, claims.Role).
		Claim(claimType, tokenTypeAccess).
		Build()
	if err != nil {
		return "", fmt.Errorf("build access token: %w", err)
	}

	return m.sign(token)
}

func (m *JWTManager) CreateRefreshToken(userID string) (string, error) {
	now := m.now()

	token, err := m.builder(userID, now, m.config.RefreshTokenExpire).
		Claim(claimType, tokenTypeRefresh).
		Build()
	if err != nil {
		return "", fmt.Errorf("build refresh token: %w", err)
	}

	return m.sign(token)
}

// VerifyAccessToken wraps every failure in core.ErrTokenInvalid. Callers
// must not branch on the cause.
func (m *JWTManager) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*AccessTokenClaims, error) {
	token, err := m.parse(ctx, tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	subject, _ := token.Subject()
	claims := &AccessTokenClaims{UserID: subject}

	for name, dst := range map[string]*string{
		claimEmail: &claims.Email,
		claimName:  &claims.Name,
		claimRole:  &claims.Role,
	} {
		if err := token.Get(name, dst); err != nil {
			return nil, fmt.Errorf(
				"verify token: missing %s claim: %w",
				name,
				core.ErrTokenInvalid,
			)
		}
	}

	return claims, nil
}

// VerifyRefreshToken returns the subject of a valid refresh token.
func (m *JWTManager) VerifyRefreshToken(
	ctx context.Context,
	tokenString string,
) (string, error) {
	token, err := m.parse(ctx, tokenString, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	subject, _ := token.Subject()
	return subject, nil
}

func (m *JWTManager) builder(subject string, now time.Time, ttl time.Duration) *jwt.Builder {
	return jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(subject).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(ttl))
}

func (m *JWTManager) sign(token jwt.Token) (string, error) {
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

func (m *JWTManager) parse(
	ctx context.Context,
	tokenString, wantType string,
) (jwt.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get(claimType, &tokenType); err != nil || tokenType != wantType {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	return token, nil
}
