// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const apiKeyAttempts = 3

type UserStore interface {
	UserFinder
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	SetAPIKey(ctx context.Context, id, apiKey string) error
}

type TokenIssuer interface {
	AccessTokenCodec
	CreateRefreshToken(userID string) (string, error)
	VerifyRefreshToken(ctx context.Context, token string) (string, error)
}

type Service struct {
	users  UserStore
	tokens TokenIssuer
}

func NewService(users UserStore, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Join registers an account with a fresh API key and signs it in.
func (s *Service) Join(ctx context.Context, req JoinRequest) (*Session, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.UserName),
	}

	for attempt := 0; ; attempt++ {
		if u.APIKey, err = core.GenerateAPIKey(); err != nil {
			return nil, fmt.Errorf("generate api key: %w", err)
		}

		err = s.users.Create(ctx, u)
		if !errors.Is(err, user.ErrAPIKeyTaken) || attempt+1 >= apiKeyAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return s.session(u)
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var hash string
	if u != nil {
		hash = u.PasswordHash
	}

	if !core.VerifyPasswordTimingSafe(req.Password, hash) {
		return nil, ErrInvalidCredentials
	}

	if u.APIKey == "" {
		if err := s.ensureAPIKey(ctx, u); err != nil {
			return nil, err
		}
	}

	return s.session(u)
}

// Reissue exchanges a valid refresh token for a new token pair.
func (s *Service) Reissue(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("reissue: %w", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("reissue: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("reissue: %w", err)
	}

	return s.session(u)
}

func (s *Service) ensureAPIKey(ctx context.Context, u *user.User) error {
	var err error
	for range apiKeyAttempts {
		key, genErr := core.GenerateAPIKey()
		if genErr != nil {
			return fmt.Errorf("generate api key: %w", genErr)
		}

		err = s.users.SetAPIKey(ctx, u.ID, key)
		if err == nil {
			u.APIKey = key
			return nil
		}
		if !errors.Is(err, user.ErrAPIKeyTaken) {
			break
		}
	}
	return fmt.Errorf("assign api key: %w", err)
}

func (s *Service) session(u *user.User) (*Session, error) {
	access, err := s.tokens.CreateAccessToken(ClaimsFor(*u))
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.tokens.CreateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &Session{
		APIKey:       u.APIKey,
		AccessToken:  access,
		RefreshToken: refresh,
		JoinedAt:     u.CreatedAt,
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
	}, nil
}
