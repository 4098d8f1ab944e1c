// AngelaMos | 2026
// entity.go

package tag

import (
	"time"
)

const MaxKeywordLen = 50

type Tag struct {
	ID        string    `db:"id"`
	Keyword   string    `db:"keyword"`
	CreatedAt time.Time `db:"created_at"`
}

// Link attaches a tag to a pin. Removing a tag from a pin soft deletes the
// link so it can be restored.
type Link struct {
	ID        string `db:"id"`
	PinID     string `db:"pin_id"`
	TagID     string `db:"tag_id"`
	IsDeleted bool   `db:"is_deleted"`
}
