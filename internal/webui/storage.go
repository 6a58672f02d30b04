package webui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// cookieStorage is the browser's local storage for one request: items live in
// cookies, and removing one expires it on the response.
type cookieStorage struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

func (s *cookieStorage) GetItem(_ context.Context, key string) (string, error) {
	c, err := s.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// SetItem fails for values a cookie cannot carry, which http.SetCookie would
// otherwise drop without a word.
func (s *cookieStorage) SetItem(_ context.Context, key, value string) error {
	c := &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("cannot store %s: %w", key, err)
	}
	http.SetCookie(s.w, c)
	return nil
}

func (s *cookieStorage) RemoveItem(_ context.Context, key string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// redirect records where the view asked to go; the handler turns it into a
// 303 once the view is done.
type redirect struct{ path string }

func (n *redirect) Navigate(path string) { n.path = path }
