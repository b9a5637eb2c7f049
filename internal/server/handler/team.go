package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/middleware"
)

// TeamService is the slice of the team service this handler needs.
type TeamService interface {
	List(ctx context.Context) ([]domain.Team, error)
	Get(ctx context.Context, id int64) (domain.Team, error)
	Create(ctx context.Context, team domain.Team, userID int64) (domain.Team, error)
	Update(ctx context.Context, team domain.Team, userID int64) (domain.Team, error)
	Delete(ctx context.Context, id, userID int64) error
	Roster(ctx context.Context, teamID int64) ([]domain.Player, error)
}

// TeamHandler serves the team endpoints.
type TeamHandler struct {
	svc    TeamService
	logger *slog.Logger
}

// NewTeamHandler creates a TeamHandler.
func NewTeamHandler(svc TeamService, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{svc: svc, logger: logger}
}

// List returns all teams ordered by standing.
// GET /api/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to list teams")
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// Get returns a single team.
// GET /api/teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	team, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to get team")
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// Roster returns a team's players.
// GET /api/teams/{id}/players
func (h *TeamHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	players, err := h.svc.Roster(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to get roster")
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// Create stores a new team.
// POST /api/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var team domain.Team
	if err := decodeJSON(r, &team); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	created, err := h.svc.Create(r.Context(), team, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to create team")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update overwrites a team.
// PUT /api/teams/{id}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	var team domain.Team
	if err := decodeJSON(r, &team); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	team.ID = id

	claims, _ := middleware.ClaimsFrom(r.Context())
	updated, err := h.svc.Update(r.Context(), team, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to update team")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a team.
// DELETE /api/teams/{id}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.svc.Delete(r.Context(), id, claims.UserID); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to delete team")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
