// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/user"
)

type mockStore struct {
	mockFinder
}

func (m *mockStore) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockStore) SetAPIKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

func newTestService(t *testing.T) (*Service, *mockStore, *JWTManager) {
	t.Helper()
	store := new(mockStore)
	m := newTestManager(t)
	return NewService(store, m), store, m
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := core.HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestJoinProvisionsAPIKeyAndTokens(t *testing.T) {
	svc, store, m := newTestService(t)

	store.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Email == "kim@pinco.dev" && u.Name == "kim" && u.APIKey != "" && u.PasswordHash != "secret-pass"
	})).Return(nil)

	s, err := svc.Join(context.Background(), JoinRequest{
		Email:    " Kim@Pinco.dev ",
		Password: "secret-pass",
		UserName: "kim",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.APIKey)

	claims, err := m.VerifyAccessToken(context.Background(), s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, claims.UserID)
	assert.Equal(t, user.RoleUser, claims.Role)
}

func TestJoinRetriesAPIKeyCollision(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.On("Create", mock.Anything, mock.Anything).Return(user.ErrAPIKeyTaken).Once()
	store.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Join(context.Background(), JoinRequest{Email: "a@pinco.dev", Password: "password1", UserName: "ab"})
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "Create", 2)
}

func TestJoinDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.On("Create", mock.Anything, mock.Anything).Return(user.ErrEmailTaken)

	_, err := svc.Join(context.Background(), JoinRequest{Email: "a@pinco.dev", Password: "password1", UserName: "ab"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	store.AssertNumberOfCalls(t, "Create", 1)
}

func TestLoginSingleFailureOutcome(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.On("GetByEmail", mock.Anything, "ghost@pinco.dev").Return(nil, core.ErrNotFound)
	store.On("GetByEmail", mock.Anything, "kim@pinco.dev").
		Return(&user.User{ID: "u-1", Email: "kim@pinco.dev", PasswordHash: hashed(t, "password1"), APIKey: "k"}, nil)

	_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "ghost@pinco.dev", Password: "password1"})
	_, errWrong := svc.Login(context.Background(), LoginRequest{Email: "kim@pinco.dev", Password: "password2"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
}

func TestLoginAssignsMissingAPIKey(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.On("GetByEmail", mock.Anything, "kim@pinco.dev").
		Return(&user.User{ID: "u-1", Email: "kim@pinco.dev", PasswordHash: hashed(t, "password1")}, nil)
	store.On("SetAPIKey", mock.Anything, "u-1", mock.AnythingOfType("string")).Return(nil)

	s, err := svc.Login(context.Background(), LoginRequest{Email: "KIM@pinco.dev", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.APIKey)
	assert.NotEmpty(t, s.RefreshToken)
}

func TestLoginStorageError(t *testing.T) {
	svc, store, _ := newTestService(t)
	dbDown := errors.New("db down")
	store.On("GetByEmail", mock.Anything, "kim@pinco.dev").Return(nil, dbDown)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "kim@pinco.dev", Password: "password1"})
	assert.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestReissue(t *testing.T) {
	svc, store, m := newTestService(t)

	refresh, err := m.CreateRefreshToken("u-1")
	require.NoError(t, err)
	store.On("GetByID", mock.Anything, "u-1").Return(&user.User{ID: "u-1", Name: "kim"}, nil)

	s, err := svc.Reissue(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, s.AccessToken)

	_, err = svc.Reissue(context.Background(), s.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestReissueDeletedUser(t *testing.T) {
	svc, store, m := newTestService(t)

	refresh, err := m.CreateRefreshToken("u-gone")
	require.NoError(t, err)
	store.On("GetByID", mock.Anything, "u-gone").Return(nil, core.ErrNotFound)

	_, err = svc.Reissue(context.Background(), refresh)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
