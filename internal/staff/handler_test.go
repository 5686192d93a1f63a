package staff

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"lawsite-backend/internal/auth"
	"lawsite-backend/internal/validation"
)

type fakeRepo struct {
	users map[string]User
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	u, ok := f.users[username]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, user User) error {
	if prev, ok := f.users[user.Username]; ok {
		user.ID = prev.ID
		user.CreatedAt = prev.CreatedAt
	}
	f.users[user.Username] = user
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeRepo, *auth.Manager) {
	t.Helper()
	repo := &fakeRepo{users: map[string]User{}}
	svc := NewService(repo, time.UTC)
	_, err := svc.EnsureUser(context.Background(), " Solicitor ", "office@example.com", "correct horse")
	require.NoError(t, err)

	manager := &auth.Manager{Secret: []byte("test-secret"), AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour, Issuer: "lawsite-backend"}
	h := NewHandler(svc, manager, validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), true)
	return h, repo, manager
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsCookies(t *testing.T) {
	h, _, manager := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"solicitor","password":"correct horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	access := cookieByName(rec.Result().Cookies(), auth.AccessCookie)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)

	claims, err := manager.Parse(access.Value)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStaff, claims.Role)
	assert.Equal(t, "solicitor", claims.Username)

	refresh := cookieByName(rec.Result().Cookies(), auth.RefreshCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, refreshCookiePath, refresh.Path)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, repo, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"solicitor","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"nobody","password":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	u := repo.users["solicitor"]
	u.Active = false
	repo.users["solicitor"] = u
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"solicitor","password":"correct horse"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	h, _, manager := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, refresh, err := manager.NewTokenPair(auth.RoleStaff, "solicitor")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshCookie, Value: refresh})
	rec = httptest.NewRecorder()
	h.Refresh(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieByName(rec.Result().Cookies(), auth.AccessCookie))

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookieByName(rec.Result().Cookies(), auth.AccessCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestLoginWithoutManager(t *testing.T) {
	h, _, _ := newTestHandler(t)
	h.manager = nil
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"a","password":"b"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
