package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xcel/profile/internal/middleware"
	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/service"
	"github.com/xcel/profile/internal/transport"
)

type ProfileService interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, id string, u service.ProfileUpdate) (*model.Profile, error)
}

// ProfileHandler exposes the authenticated user's profile.
type ProfileHandler struct{ S ProfileService }

func NewProfileHandler(s ProfileService) *ProfileHandler { return &ProfileHandler{s} }

// Get returns the authenticated user's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.S.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		transport.HTTPError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, p)
}

// Update replaces the editable fields and returns the stored profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	p, err := h.S.Update(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		transport.HTTPError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, p)
}
