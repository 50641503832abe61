package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/store"
)

// ProfileHandler serves the user profile endpoints.
type ProfileHandler struct {
	profiles store.ProfileStore
	log      zerolog.Logger
}

// NewProfileHandler creates the handler.
func NewProfileHandler(profiles store.ProfileStore, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

type profileResponse struct {
	FullName string `json:"full_name"`
	Currency string `json:"currency"`
}

// Get handles GET /api/profile. Users without a stored profile get defaults
// instead of a 404 so the client can always render settings.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.profiles.GetProfile(ctx, middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			middleware.WriteJSON(w, http.StatusOK, profileResponse{Currency: "USD"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to load profile")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, profileResponse{FullName: profile.FullName, Currency: profile.Currency})
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	ctx := r.Context()
	profile := &domain.Profile{
		UserID:    middleware.UserID(ctx),
		FullName:  req.FullName,
		Currency:  req.Currency,
		UpdatedAt: time.Now(),
	}
	if err := h.profiles.UpsertProfile(ctx, profile); err != nil {
		h.log.Error().Err(err).Msg("Failed to save profile")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, profileResponse{FullName: profile.FullName, Currency: profile.Currency})
}
