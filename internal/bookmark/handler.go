// AngelaMos | 2026
// handler.go

package bookmark

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/user"
)

type Response struct {
	ID        string       `json:"id"`
	Pin       pin.Response `json:"pin"`
	CreatedAt time.Time    `json:"createdAt"`
}

func ToResponse(e Entry) Response {
	return Response{
		ID:        e.BookmarkID,
		Pin:       pin.ToResponse(e.Pin),
		CreatedAt: e.BookmarkedAt,
	}
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/pins/{pinId}/bookmarks", h.Add)
	r.Get("/bookmarks", h.List)
	r.Delete("/bookmarks/{bookmarkId}", h.Remove)
	r.Patch("/bookmarks/{bookmarkId}", h.Restore)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Add(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "pinId"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToResponse(*e))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), user.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]Response, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToResponse(e))
	}
	core.OK(w, out)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.service.Remove(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "bookmarkId"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKMessage(w, "bookmark deleted", nil)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	err := h.service.Restore(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "bookmarkId"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKMessage(w, "bookmark restored", nil)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBookmarkNotFound):
		core.NotFound(w, core.CodeBookmarkNotFound, "bookmark not found")
	case errors.Is(err, ErrBookmarkExists):
		core.JSONError(w, core.ConflictError(core.CodeBookmarkExists, "pin already bookmarked"))
	default:
		pin.WriteError(w, err)
	}
}
