package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/security"
	"github.com/xcel/profile/internal/service"
)

type fakeProfiles struct {
	profiles map[string]*model.Profile
	updated  service.ProfileUpdate
}

func (f *fakeProfiles) Get(_ context.Context, id string) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Update(_ context.Context, id string, u service.ProfileUpdate) (*model.Profile, error) {
	if u.Email == "bad" {
		return nil, model.ErrInvalidUpdate
	}
	f.updated = u
	p := &model.Profile{UserID: id, Username: u.Username, Email: u.Email, Bio: u.Bio}
	f.profiles[id] = p
	return p, nil
}

type fakeAuth struct {
	loggedOut []string
}

func (f *fakeAuth) Register(context.Context, service.Registration) (string, error) {
	return "u-new", nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, error) {
	if password != "correct-horse" {
		return "", model.ErrInvalidCredentials
	}
	return "tok-" + email, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

type noRevocations struct{}

func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type testAPI struct {
	handler  http.Handler
	profiles *fakeProfiles
	auth     *fakeAuth
	token    string
}

func newTestAPI(t *testing.T, uploadDir string) *testAPI {
	t.Helper()
	tokens := security.NewTokens("test-secret", "xcel-api", "xcel-clients", time.Hour)
	tok, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	profiles := &fakeProfiles{profiles: map[string]*model.Profile{
		"u1": {UserID: "u1", Username: "ada", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", ProfileImage: "uploads/ada.png"},
	}}
	auth := &fakeAuth{}

	h := NewRouter(RouterConfig{
		ServiceName:       "profile-api-test",
		UploadDir:         uploadDir,
		RateLimitRequests: 3,
		RateLimitWindow:   "1m",
	}, profiles, auth, tokens, noRevocations{})

	return &testAPI{handler: h, profiles: profiles, auth: auth, token: tok}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetProfile(t *testing.T) {
	api := newTestAPI(t, "")

	rec := api.do(http.MethodGet, "/api/profile", api.token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ada", body["username"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "Ada", body["firstName"])
	assert.Equal(t, "Lovelace", body["lastName"])
	assert.Equal(t, "uploads/ada.png", body["profileImage"])
}

func TestGetProfile_RequiresBearer(t *testing.T) {
	api := newTestAPI(t, "")

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/profile", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/profile", "forged", "").Code)
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t, "")

	rec := api.do(http.MethodPut, "/api/profile", api.token, `{"username":"ada2","email":"ada2@example.com","bio":"poet"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ada2", body["username"])
	assert.Equal(t, "poet", body["bio"])
	assert.Equal(t, "ada2@example.com", api.profiles.updated.Email)
}

func TestUpdateProfile_Errors(t *testing.T) {
	api := newTestAPI(t, "")

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/api/profile", api.token, `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/api/profile", api.token, `{"username":"a","email":"bad"}`).Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, "")

	rec := api.do(http.MethodPost, "/api/login", "", `{"email":"ada@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok-ada@example.com"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized,
		api.do(http.MethodPost, "/api/login", "", `{"email":"ada@example.com","password":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		api.do(http.MethodPost, "/api/login", "", `{"email":""}`).Code)
}

func TestLogin_RateLimited(t *testing.T) {
	api := newTestAPI(t, "")

	var last int
	for i := 0; i < 4; i++ {
		last = api.do(http.MethodPost, "/api/login", "", `{"email":"ada@example.com","password":"nope"}`).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLogout(t *testing.T) {
	api := newTestAPI(t, "")

	t.Run("without token", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/logout", "", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "token=;")
	})

	t.Run("with token", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/logout", api.token, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	assert.Equal(t, []string{"", api.token}, api.auth.loggedOut)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, "")

	rec := api.do(http.MethodOptions, "/api/profile", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ada.png"), []byte("png-bytes"), 0o644))
	api := newTestAPI(t, dir)

	rec := api.do(http.MethodGet, "/uploads/ada.png?key=1700000000000", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/uploads/missing.png", "", "").Code)
}
