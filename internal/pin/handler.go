// AngelaMos | 2026
// handler.go

package pin

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

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
	r.Post("/pins", h.Create)
	r.Get("/pins", h.WithinRadius)
	r.Get("/pins/screen", h.WithinBounds)
	r.Get("/pins/all", h.All)
	r.Get("/pins/user/{userId}", h.ByOwner)
	r.Get("/pins/user/{userId}/date", h.ByOwnerAndMonth)
	r.Get("/pins/{pinId}", h.Get)
	r.Put("/pins/{pinId}", h.UpdateContent)
	r.Put("/pins/{pinId}/public", h.TogglePublic)
	r.Delete("/pins/{pinId}", h.Delete)

	r.Get("/user/mypin", h.Mine)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidPinInput, "invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidPinInput, core.FormatValidationError(err)))
		return
	}

	p, err := h.service.Create(
		r.Context(),
		user.ActorFromContext(r.Context()),
		*req.Latitude,
		*req.Longitude,
		req.Content,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, ToResponse(*p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), user.ActorFromContext(r.Context()), chi.URLParam(r, "pinId"))
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, ToResponse(*p))
}

func (h *Handler) WithinRadius(w http.ResponseWriter, r *http.Request) {
	q := queryParser{values: r.URL.Query()}
	def := h.service.DefaultRadius()

	params := radiusQuery{
		Latitude:  q.float("latitude", nil),
		Longitude: q.float("longitude", nil),
		Radius:    q.float("radius", &def),
	}
	if !h.validQuery(w, q.err, params) {
		return
	}

	pins, err := h.service.WithinRadius(
		r.Context(),
		user.ActorFromContext(r.Context()),
		params.Latitude,
		params.Longitude,
		params.Radius,
	)
	h.writeList(w, pins, err)
}

func (h *Handler) WithinBounds(w http.ResponseWriter, r *http.Request) {
	q := queryParser{values: r.URL.Query()}

	params := boundsQuery{
		LatMax: q.float("latMax", nil),
		LonMax: q.float("lonMax", nil),
		LatMin: q.float("latMin", nil),
		LonMin: q.float("lonMin", nil),
	}
	if !h.validQuery(w, q.err, params) {
		return
	}

	pins, err := h.service.WithinBounds(r.Context(), user.ActorFromContext(r.Context()), Bounds{
		LatMin: params.LatMin,
		LonMin: params.LonMin,
		LatMax: params.LatMax,
		LonMax: params.LonMax,
	})
	h.writeList(w, pins, err)
}

func (h *Handler) ByOwner(w http.ResponseWriter, r *http.Request) {
	pins, err := h.service.ByOwner(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "userId"),
	)
	h.writeList(w, pins, err)
}

func (h *Handler) ByOwnerAndMonth(w http.ResponseWriter, r *http.Request) {
	q := queryParser{values: r.URL.Query()}

	params := monthQuery{
		Year:  q.int("year"),
		Month: q.int("month"),
	}
	if !h.validQuery(w, q.err, params) {
		return
	}

	pins, err := h.service.ByOwnerAndMonth(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "userId"),
		params.Year,
		time.Month(params.Month),
	)
	h.writeList(w, pins, err)
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	pins, err := h.service.All(r.Context(), user.ActorFromContext(r.Context()))
	h.writeList(w, pins, err)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	public, private, err := h.service.Mine(r.Context(), user.ActorFromContext(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, MyPinsResponse{
		PublicPins:  ToResponses(public),
		PrivatePins: ToResponses(private),
	})
}

func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidPinInput, "invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidPinInput, core.FormatValidationError(err)))
		return
	}

	p, err := h.service.UpdateContent(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "pinId"),
		req.Content,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, ToResponse(*p))
}

func (h *Handler) TogglePublic(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.TogglePublic(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "pinId"),
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, ToResponse(*p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		user.ActorFromContext(r.Context()),
		chi.URLParam(r, "pinId"),
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OKMessage(w, "pin deleted", nil)
}

func (h *Handler) writeList(w http.ResponseWriter, pins []Pin, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	core.OK(w, ToResponses(pins))
}

func (h *Handler) validQuery(w http.ResponseWriter, parseErr error, params any) bool {
	if parseErr != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidValue, parseErr.Error()))
		return false
	}

	if err := h.validator.Struct(params); err != nil {
		core.JSONError(w, core.ValidationError(core.CodeInvalidValue, core.FormatValidationError(err)))
		return false
	}

	return true
}

// queryParser keeps the first parse error so a handler can read every
// parameter and check once.
type queryParser struct {
	values url.Values
	err    error
}

// float reads a number. A missing value is an error unless def supplies one.
func (p *queryParser) float(name string, def *float64) float64 {
	raw := p.values.Get(name)
	if raw == "" {
		if def != nil {
			return *def
		}
		p.fail(fmt.Errorf("%s is required", name))
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(fmt.Errorf("%s must be a number", name))
		return 0
	}

	return v
}

// int accepts integral values written as decimals, such as "2024.0".
func (p *queryParser) int(name string) int {
	v := p.float(name, nil)
	if v != math.Trunc(v) {
		p.fail(fmt.Errorf("%s must be a whole number", name))
		return 0
	}
	return int(v)
}

func (p *queryParser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// WriteError maps pin errors onto response envelopes. The like and bookmark
// handlers share it for pin lookups.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.AuthRequiredError())
	case errors.Is(err, ErrOwnerNotFound):
		core.NotFound(w, core.CodeUserNotFound, "user not found")
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.PinNotFoundError())
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.PinNoPermissionError())
	case errors.Is(err, core.ErrInvalidInput):
		core.JSONError(w, core.ValidationError(core.CodeInvalidPinInput, invalidMessage(err)))
	default:
		core.InternalServerError(w, err)
	}
}

func invalidMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+ErrInvalidInput.Error())
}
