// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// RoleUser is the only role a resolved user carries.
const RoleUser = "ROLE_USER"

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	APIKey       string    `db:"api_key"`
	IsDeleted    bool      `db:"is_deleted"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u User) Role() string {
	return RoleUser
}
