// AngelaMos | 2026
// handler.go

package tag

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/user"
)

type KeywordRequest struct {
	Keyword string `json:"keyword" validate:"required"`
}

type Response struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
}

func ToResponses(tags []Tag) []Response {
	out := make([]Response, 0, len(tags))
	for _, t := range tags {
		out = append(out, Response{ID: t.ID, Keyword: t.Keyword})
	}
	return out
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tags", h.All)
	r.Post("/tags", h.Create)
	r.Get("/tags/filter", h.Filter)

	r.Post("/pins/{pinId}/tags", h.AddToPin)
	r.Get("/pins/{pinId}/tags", h.OfPin)
	r.Delete("/pins/{pinId}/tags/{tagId}", h.RemoveFromPin)
	r.Patch("/pins/{pinId}/tags/{tagId}/restore", h.RestoreOnPin)
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToResponses(tags))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	keyword, ok := h.decodeKeyword(w, r)
	if !ok {
		return
	}

	t, err := h.service.Create(r.Context(), user.ActorFromContext(r.Context()), keyword)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, Response{ID: t.ID, Keyword: t.Keyword})
}

// Filter accepts keywords as repeated parameters, comma separated values,
// or both.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	var keywords []string
	for _, v := range r.URL.Query()["keywords"] {
		keywords = append(keywords, strings.Split(v, ",")...)
	}

	pins, err := h.service.Filter(r.Context(), user.ActorFromContext(r.Context()), keywords)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, pin.ToResponses(pins))
}

func (h *Handler) AddToPin(w http.ResponseWriter, r *http.Request) {
	keyword, ok := h.decodeKeyword(w, r)
	if !ok {
		return
	}

	t, err := h.service.AddToPin(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "pinId"),
		keyword,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, Response{ID: t.ID, Keyword: t.Keyword})
}

func (h *Handler) OfPin(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.OfPin(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "pinId"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToResponses(tags))
}

func (h *Handler) RemoveFromPin(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveFromPin(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "pinId"),
		chi.URLParam(r, "tagId"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKMessage(w, "tag removed", nil)
}

func (h *Handler) RestoreOnPin(w http.ResponseWriter, r *http.Request) {
	err := h.service.RestoreOnPin(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "pinId"),
		chi.URLParam(r, "tagId"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKMessage(w, "tag restored", nil)
}

func (h *Handler) decodeKeyword(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req KeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidTagInput, "invalid request body"))
		return "", false
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidTagKeyword, core.FormatValidationError(err)))
		return "", false
	}

	return req.Keyword, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTagNotFound):
		core.NotFound(w, core.CodeTagNotFound, "tag not found")
	case errors.Is(err, ErrLinkNotFound):
		core.NotFound(w, core.CodeTagLinkNotFound, "tag is not linked to this pin")
	case errors.Is(err, ErrTagExists):
		core.JSONError(w, core.ConflictError(core.CodeTagExists, "tag already exists"))
	case errors.Is(err, ErrAlreadyLinked):
		core.JSONError(w, core.ConflictError(core.CodeTagAlreadyLinked, "tag already linked to this pin"))
	case errors.Is(err, ErrInvalidKeyword):
		core.JSONError(w, core.ValidationError(core.CodeInvalidTagKeyword, err.Error()))
	case errors.Is(err, ErrNoKeywords):
		core.JSONError(w, core.ValidationError(core.CodeInvalidTagInput, "at least one keyword is required"))
	default:
		pin.WriteError(w, err)
	}
}
