// AngelaMos | 2026
// entity.go

package pin

import (
	"time"
)

// SRID is WGS 84, the reference system of every stored point.
const SRID = 4326

type Pin struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	Content   string    `db:"content"`
	IsPublic  bool      `db:"is_public"`
	IsDeleted bool      `db:"is_deleted"`
	LikeCount int       `db:"like_count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Bounds is a latitude/longitude rectangle.
type Bounds struct {
	LatMin float64
	LonMin float64
	LatMax float64
	LonMax float64
}

// Columns selects a Pin from the pins table aliased as p.
const Columns = `p.id, p.user_id,
	ST_Y(p.point::geometry) AS latitude,
	ST_X(p.point::geometry) AS longitude,
	p.content, p.is_public, p.is_deleted, p.like_count,
	p.created_at, p.updated_at`
