package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xcel/profile/internal/middleware"
	"github.com/xcel/profile/internal/service"
	"github.com/xcel/profile/internal/transport"
)

type AuthService interface {
	Register(ctx context.Context, reg service.Registration) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler exposes sign-in, registration and logout.
type AuthHandler struct{ S AuthService }

func NewAuthHandler(s AuthService) *AuthHandler { return &AuthHandler{s} }

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	userID, err := h.S.Register(r.Context(), req)
	if err != nil {
		transport.HTTPError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, map[string]string{"userId": userID})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_fields", "email and password are required")
		return
	}

	token, err := h.S.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		transport.HTTPError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout is unauthenticated: clients are not required to send a token. When
// one is present it is revoked. The token cookie is always expired.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)

	if err := h.S.Logout(r.Context(), token); err != nil {
		transport.HTTPError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
