// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type JoinRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	UserName string `json:"userName" validate:"required,min=2,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type ReissueRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type JoinResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenResponse struct {
	APIKey       string `json:"apiKey,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is what join, login and reissue hand back to the handler.
type Session struct {
	APIKey       string
	AccessToken  string
	RefreshToken string
	JoinedAt     time.Time
	UserID       string
	Email        string
	Name         string
}
