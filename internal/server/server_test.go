// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
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
	"github.com/pinco-dev/pinco/internal/health"
	"github.com/pinco-dev/pinco/internal/metrics"
	"github.com/pinco-dev/pinco/internal/middleware"
	"github.com/pinco-dev/pinco/internal/user"
)

type keyResolver struct{}

func (keyResolver) Resolve(_ context.Context, creds auth.Credentials) (auth.Resolution, error) {
	switch creds.APIKey {
	case "":
		return auth.Resolution{Actor: user.Anonymous()}, nil
	case "good-key":
		return auth.Resolution{Actor: user.Authenticated(user.User{ID: "u-1", Name: "ada"})}, nil
	default:
		return auth.Resolution{}, core.ErrInvalidAPIKey
	}
}

type probeRoutes struct{}

func (probeRoutes) RegisterRoutes(r chi.Router) {
	whoami := func(w http.ResponseWriter, r *http.Request) {
		core.OK(w, user.ActorFromContext(r.Context()).ID())
	}
	r.Get("/pins/{pinId}", whoami)
	r.Get("/bookmarks", whoami)
}

func newTestServer() (*Server, *health.Handler) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := health.NewHandler()

	srv := New(Config{
		ServerConfig: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Authorization", "X-API-Key"},
		},
		Logger:      logger,
		Health:      h,
		Metrics:     metrics.New("pinco_test"),
		MetricsPath: "/metrics",
		Auth: middleware.AuthConfig{
			Resolver: keyResolver{},
			Policy:   middleware.DefaultPolicy(),
		},
		Routes: []RouteRegistrar{probeRoutes{}},
	})
	return srv, h
}

func serve(srv *Server, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, r)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.ErrorCode
}

func TestPublicRouteServesAnonymous(t *testing.T) {
	srv, _ := newTestServer()

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/pins/p-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestProtectedRouteNeedsActor(t *testing.T) {
	srv, _ := newTestServer()

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeAuthRequired, errorCode(t, rec))

	r := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	r.Header.Set("X-API-Key", "good-key")
	rec = serve(srv, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"u-1"`)
}

func TestBadKeyRejectedOnPublicRoute(t *testing.T) {
	srv, _ := newTestServer()

	r := httptest.NewRequest(http.MethodGet, "/api/pins/p-1", nil)
	r.Header.Set("X-API-Key", "stolen")
	rec := serve(srv, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeInvalidAPIKey, errorCode(t, rec))
}

func TestPreflightSkipsAuth(t *testing.T) {
	srv, _ := newTestServer()

	r := httptest.NewRequest(http.MethodOptions, "/api/bookmarks", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(srv, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOpsEndpointsOutsideAPI(t *testing.T) {
	srv, _ := newTestServer()

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	serve(srv, httptest.NewRequest(http.MethodGet, "/api/pins/p-1", nil))

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `route="/api/pins/{pinId}"`), rec.Body.String())
}

func TestShutdownFailsLiveness(t *testing.T) {
	srv, h := newTestServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx, 0))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetShutdown(false)
	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpsBypass(t *testing.T) {
	bypass := OpsBypass("/metrics")

	for path, want := range map[string]bool{
		"/healthz":  true,
		"/readyz":   true,
		"/metrics":  true,
		"/api/pins": false,
		"/metricsx": false,
	} {
		assert.Equal(t, want, bypass(httptest.NewRequest(http.MethodGet, path, nil)), path)
	}
}
