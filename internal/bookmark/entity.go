// AngelaMos | 2026
// entity.go

package bookmark

import (
	"time"

	"github.com/pinco-dev/pinco/internal/pin"
)

type Bookmark struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	PinID     string    `db:"pin_id"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Entry is a live bookmark joined with the pin it points at.
type Entry struct {
	BookmarkID   string    `db:"bookmark_id"`
	BookmarkedAt time.Time `db:"bookmarked_at"`
	pin.Pin
}
