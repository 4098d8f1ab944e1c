// AngelaMos | 2026
// dto.go

package pin

import (
	"time"
)

// Coordinates are pointers so a zero latitude or longitude still counts as
// present.
type CreateRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Content   string   `json:"content"   validate:"required"`
}

type UpdateContentRequest struct {
	Content string `json:"content" validate:"required"`
}

type radiusQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Radius    float64 `validate:"gt=0"`
}

type boundsQuery struct {
	LatMax float64 `validate:"gte=-90,lte=90"`
	LonMax float64 `validate:"gte=-180,lte=180"`
	LatMin float64 `validate:"gte=-90,lte=90"`
	LonMin float64 `validate:"gte=-180,lte=180"`
}

type monthQuery struct {
	Year  int `validate:"gte=1,lte=9999"`
	Month int `validate:"gte=1,lte=12"`
}

type Response struct {
	ID         string    `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Content    string    `json:"content"`
	UserID     string    `json:"userId"`
	LikeCount  int       `json:"likeCount"`
	IsPublic   bool      `json:"isPublic"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

type MyPinsResponse struct {
	PublicPins  []Response `json:"publicPins"`
	PrivatePins []Response `json:"privatePins"`
}

func ToResponse(p Pin) Response {
	return Response{
		ID:         p.ID,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Content:    p.Content,
		UserID:     p.UserID,
		LikeCount:  p.LikeCount,
		IsPublic:   p.IsPublic,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.UpdatedAt,
	}
}

func ToResponses(pins []Pin) []Response {
	out := make([]Response, 0, len(pins))
	for _, p := range pins {
		out = append(out, ToResponse(p))
	}
	return out
}
