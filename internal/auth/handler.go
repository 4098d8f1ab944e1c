// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
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
	r.Post("/user/join", h.Join)
	r.Post("/user/login", h.Login)
	r.Post("/user/reissue", h.Reissue)
	r.Post("/user/logout", h.Logout)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, err := h.service.Join(r.Context(), req)
	if err != nil {
		user.WriteError(w, err)
		return
	}

	writeSessionCookies(w, r, s)
	core.JSON(w, http.StatusCreated, core.Response{
		ErrorCode: core.CodeSuccess,
		Msg:       "registration complete",
		Data: JoinResponse{
			ID:        s.UserID,
			Email:     s.Email,
			UserName:  s.Name,
			CreatedAt: s.JoinedAt,
		},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.InvalidCredentialsError())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	writeSessionCookies(w, r, s)
	core.OKMessage(w, "login successful", TokenResponse{
		APIKey:       s.APIKey,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	})
}

func (h *Handler) Reissue(w http.ResponseWriter, r *http.Request) {
	var req ReissueRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, err := h.service.Reissue(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			core.JSONError(w, core.InvalidAccessTokenError())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	WriteAccessToken(w, r, s.AccessToken)
	core.OKMessage(w, "tokens reissued", TokenResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	})
}

// Logout only expires the credential cookies. Tokens are stateless and stay
// valid until they expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookies(w, r)
	core.OKMessage(w, "logged out", nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}
