package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/middleware"
)

// PlayerService is the slice of the player service this handler needs.
type PlayerService interface {
	Get(ctx context.Context, id int64) (domain.Player, error)
	Create(ctx context.Context, player domain.Player, userID int64) (domain.Player, error)
	Update(ctx context.Context, player domain.Player, userID int64) (domain.Player, error)
	Delete(ctx context.Context, id, userID int64) error
}

// PlayerHandler serves the player endpoints.
type PlayerHandler struct {
	svc    PlayerService
	logger *slog.Logger
}

// NewPlayerHandler creates a PlayerHandler.
func NewPlayerHandler(svc PlayerService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{svc: svc, logger: logger}
}

// Create stores a new player.
// POST /api/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var player domain.Player
	if err := decodeJSON(r, &player); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	created, err := h.svc.Create(r.Context(), player, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to create player")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update overwrites a player.
// PUT /api/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	var player domain.Player
	if err := decodeJSON(r, &player); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	player.ID = id

	claims, _ := middleware.ClaimsFrom(r.Context())
	updated, err := h.svc.Update(r.Context(), player, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to update player")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a player.
// DELETE /api/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.svc.Delete(r.Context(), id, claims.UserID); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to delete player")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
