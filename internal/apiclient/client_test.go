package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcel/profile/internal/profileview"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestGetProfile(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/profile", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"username":"ada","email":"ada@example.com","firstName":"Ada","lastName":"Lovelace","bio":"b","profileImage":"uploads/a.png","userId":"u1"}`)
	})

	p, err := c.GetProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, profileview.Profile{
		Username: "ada", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Bio: "b", ProfileImage: "uploads/a.png",
	}, p)
}

func TestGetProfile_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "null", "  \n"} {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		_, err := c.GetProfile(context.Background(), "tok")
		require.ErrorIs(t, err, profileview.ErrProfileNotFound)
		assert.Equal(t, "User profile not found", err.Error())
	}
}

func TestGetProfile_StatusError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"unauthorized","message":"invalid token"}`)
	})

	_, err := c.GetProfile(context.Background(), "tok")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "invalid token", se.Message)
	assert.Equal(t, "request failed with status code 401", err.Error())
}

func TestGetProfile_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL)
	srv.Close()

	_, err := c.GetProfile(context.Background(), "tok")
	require.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	in := profileview.Profile{Username: "ada", Email: "ada@example.com", Bio: "new"}

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer stored", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got profileview.Profile
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, in, got)

		got.FirstName = "Ada"
		_ = json.NewEncoder(w).Encode(got)
	})

	out, err := c.UpdateProfile(context.Background(), "stored", in)
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.FirstName)
	assert.Equal(t, "new", out.Bio)
}

func TestLogout_SendsNoAuth(t *testing.T) {
	called := false
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/logout", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Logout(context.Background()))
	assert.True(t, called)
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "secret-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"token":"jwt"}`)
	})

	tok, err := c.Login(context.Background(), "ada@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)

	_, err = c.Login(context.Background(), "ada@example.com", "wrong")
	assert.EqualError(t, err, "request failed with status code 401")
}

func TestNew_DefaultBase(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
}
