// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// EditRequest changes the display name, the password, or both. Password is
// the current password and is always required.
type EditRequest struct {
	Password    string `json:"password"    validate:"required"`
	NewUserName string `json:"newUserName" validate:"omitempty,min=2,max=20"`
	NewPassword string `json:"newPassword" validate:"omitempty,min=8,max=128"`
}

type DeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

type InfoResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToInfoResponse(u User) InfoResponse {
	return InfoResponse{
		ID:       u.ID,
		Email:    u.Email,
		UserName: u.Name,
	}
}

func ToProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		UserName:  u.Name,
		CreatedAt: u.CreatedAt,
	}
}
