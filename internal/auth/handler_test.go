// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
)

func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func cookieMap(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func bodyOf(t *testing.T, rec *httptest.ResponseRecorder) core.Response {
	t.Helper()
	var resp core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJoinHandlerSetsCookies(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/join",
		`{"email":"kim@pinco.dev","password":"password1","userName":"kim"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	cookies := cookieMap(rec)
	require.Contains(t, cookies, "apiKey")
	require.Contains(t, cookies, "accessToken")
	assert.True(t, cookies["apiKey"].HttpOnly)
	assert.Equal(t, "200", bodyOf(t, rec).ErrorCode)
}

func TestJoinHandlerConflict(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.On("Create", mock.Anything, mock.Anything).Return(user.ErrNameTaken)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/join",
		`{"email":"kim@pinco.dev","password":"password1","userName":"kim"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, core.CodeNicknameExists, bodyOf(t, rec).ErrorCode)
}

func TestJoinHandlerValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/join",
		`{"email":"not-an-email","password":"short","userName":"k"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeInvalidValue, bodyOf(t, rec).ErrorCode)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.On("GetByEmail", mock.Anything, "kim@pinco.dev").Return(nil, core.ErrNotFound)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/login",
		`{"email":"kim@pinco.dev","password":"password1"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeInvalidCredentials, bodyOf(t, rec).ErrorCode)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginHandlerReturnsTokens(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.On("GetByEmail", mock.Anything, "kim@pinco.dev").
		Return(&user.User{ID: "u-1", Email: "kim@pinco.dev", PasswordHash: hashed(t, "password1"), APIKey: "key-1"}, nil)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/login",
		`{"email":"kim@pinco.dev","password":"password1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := bodyOf(t, rec).Data.(map[string]any)
	assert.Equal(t, "key-1", data["apiKey"])
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])
	assert.Equal(t, "key-1", cookieMap(rec)["apiKey"].Value)
}

func TestReissueHandler(t *testing.T) {
	svc, store, m := newTestService(t)
	refresh, err := m.CreateRefreshToken("u-1")
	require.NoError(t, err)
	store.On("GetByID", mock.Anything, "u-1").Return(&user.User{ID: "u-1"}, nil)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/reissue",
		`{"refreshToken":"`+refresh+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	header := rec.Header().Get(AccessTokenHeader)
	assert.NotEmpty(t, header)
	assert.Equal(t, header, cookieMap(rec)["accessToken"].Value)
}

func TestReissueHandlerRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/reissue", `{"refreshToken":"garbage"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeInvalidAccessToken, bodyOf(t, rec).ErrorCode)
}

func TestLogoutClearsCookies(t *testing.T) {
	svc, _, _ := newTestService(t)

	rec := doRequest(t, NewHandler(svc), http.MethodPost, "/user/logout", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := cookieMap(rec)
	assert.Less(t, cookies["apiKey"].MaxAge, 0)
	assert.Less(t, cookies["accessToken"].MaxAge, 0)
}
