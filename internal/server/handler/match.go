package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/middleware"
)

// MatchService is the slice of the match service this handler needs.
type MatchService interface {
	List(ctx context.Context, status domain.MatchStatus, opts domain.ListOpts) ([]domain.Match, error)
	Get(ctx context.Context, id int64) (domain.Match, error)
	Create(ctx context.Context, match domain.Match, userID int64) (domain.Match, error)
	SettleResult(ctx context.Context, id int64, homeScore, awayScore int, userID int64) (domain.Match, error)
	Delete(ctx context.Context, id, userID int64) error
}

// MatchHandler serves the match endpoints.
type MatchHandler struct {
	svc    MatchService
	logger *slog.Logger
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(svc MatchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{svc: svc, logger: logger}
}

// List returns matches, optionally filtered by status.
// GET /api/matches?status=finished&limit=50&offset=0
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.MatchStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.MatchStatusScheduled, domain.MatchStatusLive, domain.MatchStatusFinished:
	default:
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	matches, err := h.svc.List(r.Context(), status, parseListOpts(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to list matches")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// Get returns a single match.
// GET /api/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	match, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to get match")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// Create schedules a match.
// POST /api/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var match domain.Match
	if err := decodeJSON(r, &match); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	created, err := h.svc.Create(r.Context(), match, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to create match")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type resultRequest struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// SettleResult records a final score.
// PUT /api/matches/{id}/result
func (h *MatchHandler) SettleResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	var req resultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	settled, err := h.svc.SettleResult(r.Context(), id, req.HomeScore, req.AwayScore, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to record result")
		return
	}
	writeJSON(w, http.StatusOK, settled)
}

// Delete removes a match.
// DELETE /api/matches/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.svc.Delete(r.Context(), id, claims.UserID); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to delete match")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
