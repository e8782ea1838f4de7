package auth

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

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/merenda-app/merenda/internal/shared"
)

type fakeRepo struct {
	users    map[string]*User
	sessions map[string]int64
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if f.sessions == nil {
		f.sessions = make(map[string]int64)
	}
	f.sessions[id] = userID
	return nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeRoles struct {
	perms map[int64][]string
}

func (f *fakeRoles) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	return f.perms[userID], nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeRepo, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeRepo{users: map[string]*User{
		"merendeira@escola.local": {
			ID:           7,
			Email:        "merendeira@escola.local",
			Name:         "Merendeira",
			PasswordHash: string(hash),
			IsActive:     true,
		},
		"inativo@escola.local": {
			ID:           8,
			Email:        "inativo@escola.local",
			PasswordHash: string(hash),
			IsActive:     false,
		},
	}}
	roles := &fakeRoles{perms: map[int64][]string{
		7: {shared.PermMenusView, shared.PermReportsView},
	}}

	sessions := shared.NewSessionManager(client, "merenda_session", "session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), roles, sessions, csrf), repo, sessions
}

func loginRequestWithSession(t *testing.T, sessions *shared.SessionManager, body string) (*http.Request, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginSuccess(t *testing.T) {
	handler, repo, sessions := newTestHandler(t)

	req, sess := loginRequestWithSession(t, sessions,
		`{"email":"merendeira@escola.local","password":"supersecret"}`)
	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserID      int64    `json:"user_id"`
		Email       string   `json:"email"`
		CSRFToken   string   `json:"csrf_token"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.UserID)
	assert.Equal(t, "merendeira@escola.local", resp.Email)
	assert.NotEmpty(t, resp.CSRFToken)
	assert.Contains(t, resp.Permissions, shared.PermMenusView)

	assert.Equal(t, "7", sess.User())
	assert.Equal(t, int64(7), repo.sessions[sess.ID])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	handler, repo, sessions := newTestHandler(t)

	req, sess := loginRequestWithSession(t, sessions,
		`{"email":"merendeira@escola.local","password":"wrongwrong"}`)
	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sess.User())
	assert.Empty(t, repo.sessions[sess.ID])
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	handler, _, sessions := newTestHandler(t)

	req, _ := loginRequestWithSession(t, sessions,
		`{"email":"inativo@escola.local","password":"supersecret"}`)
	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	handler, _, sessions := newTestHandler(t)

	cases := map[string]string{
		"malformed email": `{"email":"not-an-email","password":"supersecret"}`,
		"short password":  `{"email":"merendeira@escola.local","password":"abc"}`,
		"invalid json":    `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req, _ := loginRequestWithSession(t, sessions, body)
			rec := httptest.NewRecorder()
			handler.handleLogin(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMeRequiresAuthenticatedSession(t *testing.T) {
	handler, _, sessions := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.handleMe(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	anon, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), anon))
	rec = httptest.NewRecorder()
	handler.handleMe(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsPermissions(t *testing.T) {
	handler, _, sessions := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	sess, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	sess.SetUser("7")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	handler.handleMe(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserID      int64    `json:"user_id"`
		CSRFToken   string   `json:"csrf_token"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.UserID)
	assert.NotEmpty(t, resp.CSRFToken)
	assert.ElementsMatch(t, []string{shared.PermMenusView, shared.PermReportsView}, resp.Permissions)
}

func TestLogoutRemovesSessionRecord(t *testing.T) {
	handler, repo, sessions := newTestHandler(t)

	req, sess := loginRequestWithSession(t, sessions,
		`{"email":"merendeira@escola.local","password":"supersecret"}`)
	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, repo.sessions, sess.ID)

	out := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	out = out.WithContext(shared.ContextWithSession(out.Context(), sess))
	rec = httptest.NewRecorder()
	handler.handleLogout(rec, out)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, repo.sessions, sess.ID)
}
