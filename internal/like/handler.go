// AngelaMos | 2026
// handler.go

package like

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/user"
)

type LikerResponse struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/pins/{pinId}/likes", h.Like)
	r.Delete("/pins/{pinId}/likes", h.Unlike)
	r.Get("/pins/{pinId}/likesusers", h.Likers)
	r.Get("/user/{userId}/likespins", h.LikedPins)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Like(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "pinId"))
	h.writeStatus(w, status, err)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Unlike(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "pinId"))
	h.writeStatus(w, status, err)
}

func (h *Handler) Likers(w http.ResponseWriter, r *http.Request) {
	likers, err := h.service.Likers(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "pinId"))
	if err != nil {
		pin.WriteError(w, err)
		return
	}

	out := make([]LikerResponse, 0, len(likers))
	for _, l := range likers {
		out = append(out, LikerResponse{ID: l.ID, UserName: l.Name})
	}
	core.OK(w, out)
}

func (h *Handler) LikedPins(w http.ResponseWriter, r *http.Request) {
	pins, err := h.service.LikedPins(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		pin.WriteError(w, err)
		return
	}

	core.OK(w, pin.ToResponses(pins))
}

func (h *Handler) writeStatus(w http.ResponseWriter, status Status, err error) {
	if err != nil {
		pin.WriteError(w, err)
		return
	}
	core.OK(w, status)
}
