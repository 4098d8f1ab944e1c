// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pinco-dev/pinco/internal/core"
)

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
	r.Get("/user/getInfo", h.GetInfo)
	r.Put("/user/edit", h.Edit)
	r.Delete("/user/delete", h.Delete)
}

func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Info(ActorFromContext(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, ToInfoResponse(u))
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.Edit(r.Context(), ActorFromContext(r.Context()), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OKMessage(w, "user updated", nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.Delete(r.Context(), ActorFromContext(r.Context()), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.ClearCredentialCookie(w, r, core.AccessTokenCookie)
	core.ClearCredentialCookie(w, r, core.APIKeyCookie)
	core.OKMessage(w, "account deleted", nil)
}

// WriteError maps account errors onto response envelopes. The auth handler
// shares it for registration conflicts.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.AuthRequiredError())
	case errors.Is(err, ErrPasswordMismatch):
		core.JSONError(w, core.NewAppError(
			err, "password does not match", http.StatusUnauthorized, core.CodePasswordNotMatch,
		))
	case errors.Is(err, ErrNoChanges):
		core.JSONError(w, core.ValidationError(core.CodeNoFieldsToUpdate, "nothing to update"))
	case errors.Is(err, ErrNameTaken):
		core.JSONError(w, core.ConflictError(core.CodeNicknameExists, "user name already in use"))
	case errors.Is(err, ErrEmailTaken):
		core.JSONError(w, core.ConflictError(core.CodeEmailExists, "email already registered"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, core.CodeUserNotFound, "user not found")
	default:
		core.InternalServerError(w, err)
	}
}
