// AngelaMos | 2026
// handler_test.go

package pin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinco-dev/pinco/internal/auth"
	"github.com/pinco-dev/pinco/internal/config"
	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/middleware"
	"github.com/pinco-dev/pinco/internal/user"
)

type envelope struct {
	ErrorCode string          `json:"errorCode"`
	Msg       string          `json:"msg"`
	Data      json.RawMessage `json:"data"`
}

func newRouter(svc *Service) chi.Router {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, r *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func as(r *http.Request, actor user.Actor) *http.Request {
	return r.WithContext(user.WithActor(r.Context(), actor))
}

func TestAnonymousReadsPublicPin(t *testing.T) {
	rec, env := do(t, newRouter(newTestService(seeded())),
		httptest.NewRequest(http.MethodGet, "/pins/"+ownerPublicPin, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.CodeSuccess, env.ErrorCode)

	var body Response
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, ownerPublicPin, body.ID)
	assert.Equal(t, ownerID, body.UserID)
}

func TestAnonymousCannotSeePrivatePin(t *testing.T) {
	rec, env := do(t, newRouter(newTestService(seeded())),
		httptest.NewRequest(http.MethodGet, "/pins/"+ownerPrivatePin, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, core.CodePinNotFound, env.ErrorCode)
	assert.Equal(t, "null", string(env.Data))
}

func TestNonOwnerGetsNotFoundForPrivatePin(t *testing.T) {
	r := as(httptest.NewRequest(http.MethodGet, "/pins/"+ownerPrivatePin, nil), otherActor)

	rec, env := do(t, newRouter(newTestService(seeded())), r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, core.CodePinNotFound, env.ErrorCode)
}

func TestAnonymousRadiusListReturnsOnlyPublic(t *testing.T) {
	rec, env := do(t, newRouter(newTestService(seeded())),
		httptest.NewRequest(http.MethodGet, "/pins?latitude=37.5&longitude=127", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var pins []Response
	require.NoError(t, json.Unmarshal(env.Data, &pins))
	require.Len(t, pins, 2)
	for _, p := range pins {
		assert.True(t, p.IsPublic, p.ID)
	}
}

func TestRadiusQueryValidation(t *testing.T) {
	router := newRouter(newTestService(seeded()))

	for _, target := range []string{
		"/pins?longitude=127",
		"/pins?latitude=91&longitude=127",
		"/pins?latitude=abc&longitude=127",
		"/pins?latitude=37&longitude=127&radius=0",
	} {
		rec, env := do(t, router, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, core.CodeInvalidValue, env.ErrorCode, target)
	}
}

func TestRadiusAboveMaximumIsInvalidPinInput(t *testing.T) {
	rec, env := do(t, newRouter(newTestService(seeded())),
		httptest.NewRequest(http.MethodGet, "/pins?latitude=37&longitude=127&radius=900000", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeInvalidPinInput, env.ErrorCode)
}

func TestScreenAndAllRespectScope(t *testing.T) {
	router := newRouter(newTestService(seeded()))

	r := as(httptest.NewRequest(http.MethodGet, "/pins/screen?latMax=38&lonMax=128&latMin=37&lonMin=126", nil), ownerActor)
	_, env := do(t, router, r)
	var pins []Response
	require.NoError(t, json.Unmarshal(env.Data, &pins))
	assert.Len(t, pins, 2)

	_, env = do(t, router, httptest.NewRequest(http.MethodGet, "/pins/all", nil))
	require.NoError(t, json.Unmarshal(env.Data, &pins))
	assert.Len(t, pins, 2)
}

func TestByOwnerAndMonthAcceptsDecimalYear(t *testing.T) {
	router := newRouter(newTestService(seeded()))

	target := fmt.Sprintf("/pins/user/%s/date?year=2025.0&month=3", ownerID)
	rec, env := do(t, router, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var pins []Response
	require.NoError(t, json.Unmarshal(env.Data, &pins))
	assert.Len(t, pins, 1)

	target = fmt.Sprintf("/pins/user/%s/date?year=2025&month=13", ownerID)
	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestByUnknownOwner(t *testing.T) {
	rec, env := do(t, newRouter(newTestService(seeded())),
		httptest.NewRequest(http.MethodGet, "/pins/user/nobody", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, core.CodeUserNotFound, env.ErrorCode)
}

func TestCreatePin(t *testing.T) {
	router := newRouter(newTestService(seeded()))

	r := as(httptest.NewRequest(http.MethodPost, "/pins",
		strings.NewReader(`{"latitude":0,"longitude":0,"content":"equator"}`)), ownerActor)
	rec, env := do(t, router, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "equator", body.Content)
	assert.True(t, body.IsPublic)

	r = as(httptest.NewRequest(http.MethodPost, "/pins",
		strings.NewReader(`{"longitude":0,"content":"no lat"}`)), ownerActor)
	rec, env = do(t, router, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeInvalidPinInput, env.ErrorCode)
}

func TestMutationByNonOwner(t *testing.T) {
	router := newRouter(newTestService(seeded()))

	r := as(httptest.NewRequest(http.MethodPut, "/pins/"+ownerPublicPin,
		strings.NewReader(`{"content":"hijack"}`)), otherActor)
	rec, env := do(t, router, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, core.CodePinNoPermission, env.ErrorCode)

	r = as(httptest.NewRequest(http.MethodDelete, "/pins/"+ownerPrivatePin, nil), otherActor)
	rec, env = do(t, router, r)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, core.CodePinNotFound, env.ErrorCode)
}

func TestMyPins(t *testing.T) {
	r := as(httptest.NewRequest(http.MethodGet, "/user/mypin", nil), ownerActor)
	rec, env := do(t, newRouter(newTestService(seeded())), r)

	require.Equal(t, http.StatusOK, rec.Code)
	var body MyPinsResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Len(t, body.PublicPins, 1)
	assert.Len(t, body.PrivatePins, 1)
}

type apiKeyUsers map[string]user.User

func (u apiKeyUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	for _, v := range u {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (u apiKeyUsers) GetByAPIKey(_ context.Context, key string) (*user.User, error) {
	if v, ok := u[key]; ok {
		return &v, nil
	}
	return nil, fmt.Errorf("get user by api key: %w", core.ErrNotFound)
}

// TestExpiredTokenWithAPIKeyReachesOwnPrivatePin runs the full
// authentication chain in front of the pin routes.
func TestExpiredTokenWithAPIKeyReachesOwnPrivatePin(t *testing.T) {
	owner, _ := ownerActor.User()
	owner.APIKey = "owner-key"
	users := apiKeyUsers{owner.APIKey: owner}

	jwtCfg := config.JWTConfig{
		Secret:             "pin-handler-test-secret-0123456789abcdef",
		AccessTokenExpire:  time.Hour,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "pinco",
		Audience:           "pinco-api",
	}
	tokens, err := auth.NewJWTManager(jwtCfg)
	require.NoError(t, err)

	stale, err := tokens.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }).
		CreateAccessToken(auth.ClaimsFor(owner))
	require.NoError(t, err)

	policy := middleware.DefaultPolicy()
	router := chi.NewRouter()
	router.Use(middleware.Authenticator(middleware.AuthConfig{
		Resolver: auth.NewResolver(users, tokens, nil),
		Policy:   policy,
	}))
	router.Use(middleware.Authorize(policy))
	router.Route("/api", func(r chi.Router) {
		NewHandler(newTestService(seeded())).RegisterRoutes(r)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/pins/"+ownerPrivatePin, nil)
	r.Header.Set("Authorization", "Bearer "+owner.APIKey+" "+stale)
	rec, env := do(t, router, r)

	require.Equal(t, http.StatusOK, rec.Code, env.Msg)
	reissued := rec.Header().Get(auth.AccessTokenHeader)
	require.NotEmpty(t, reissued)
	assert.NotEqual(t, stale, reissued)

	claims, err := tokens.VerifyAccessToken(context.Background(), reissued)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, claims.UserID)

	r = httptest.NewRequest(http.MethodGet, "/api/pins/"+ownerPrivatePin, nil)
	rec, env = do(t, router, r)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, core.CodePinNotFound, env.ErrorCode)

	r = httptest.NewRequest(http.MethodPut, "/api/pins/"+ownerPublicPin, strings.NewReader(`{"content":"x"}`))
	r.Header.Set("Authorization", "Token abc")
	r.AddCookie(&http.Cookie{Name: core.APIKeyCookie, Value: owner.APIKey})
	rec, env = do(t, router, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeInvalidAccessToken, env.ErrorCode)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	router := newRouter(newTestService(repo))

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "get",
			req:    httptest.NewRequest(http.MethodGet, "/pins/42", nil),
			status: http.StatusNotFound,
			code:   core.CodePinNotFound,
		},
		{
			name: "update",
			req: as(httptest.NewRequest(http.MethodPut, "/pins/not-a-uuid",
				strings.NewReader(`{"content":"x"}`)), ownerActor),
			status: http.StatusNotFound,
			code:   core.CodePinNotFound,
		},
		{
			name:   "toggle",
			req:    as(httptest.NewRequest(http.MethodPut, "/pins/42/public", nil), ownerActor),
			status: http.StatusNotFound,
			code:   core.CodePinNotFound,
		},
		{
			name:   "delete",
			req:    as(httptest.NewRequest(http.MethodDelete, "/pins/42", nil), ownerActor),
			status: http.StatusNotFound,
			code:   core.CodePinNotFound,
		},
		{
			name:   "by owner",
			req:    httptest.NewRequest(http.MethodGet, "/pins/user/42", nil),
			status: http.StatusNotFound,
			code:   core.CodeUserNotFound,
		},
		{
			name:   "by owner and month",
			req:    httptest.NewRequest(http.MethodGet, "/pins/user/42/date?year=2025&month=3", nil),
			status: http.StatusNotFound,
			code:   core.CodeUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, env.ErrorCode)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
