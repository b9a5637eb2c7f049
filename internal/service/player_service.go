package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// PlayerService manages roster entries.
type PlayerService struct {
	players domain.PlayerStore
	teams   domain.TeamStore
	audit   domain.AuditStore
	logger  *slog.Logger
}

// NewPlayerService creates a PlayerService. Audit is optional.
func NewPlayerService(
	players domain.PlayerStore,
	teams domain.TeamStore,
	audit domain.AuditStore,
	logger *slog.Logger,
) *PlayerService {
	return &PlayerService{
		players: players,
		teams:   teams,
		audit:   audit,
		logger:  logger,
	}
}

// Get retrieves one player.
func (s *PlayerService) Get(ctx context.Context, id int64) (domain.Player, error) {
	return s.players.GetByID(ctx, id)
}

// Create stores a new player after checking the team exists.
func (s *PlayerService) Create(ctx context.Context, player domain.Player, userID int64) (domain.Player, error) {
	if player.Name == "" {
		return domain.Player{}, fmt.Errorf("%w: player name is required", domain.ErrInvalidInput)
	}
	if _, err := s.teams.GetByID(ctx, player.TeamID); err != nil {
		return domain.Player{}, err
	}

	created, err := s.players.Create(ctx, player)
	if err != nil {
		return domain.Player{}, err
	}

	s.auditLog(ctx, userID, "CREATE", created.ID, map[string]any{"name": created.Name, "teamId": created.TeamID})
	return created, nil
}

// Update overwrites a player.
func (s *PlayerService) Update(ctx context.Context, player domain.Player, userID int64) (domain.Player, error) {
	updated, err := s.players.Update(ctx, player)
	if err != nil {
		return domain.Player{}, err
	}

	s.auditLog(ctx, userID, "UPDATE", updated.ID, map[string]any{"name": updated.Name})
	return updated, nil
}

// Delete removes a player.
func (s *PlayerService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.players.Delete(ctx, id); err != nil {
		return err
	}
	s.auditLog(ctx, userID, "DELETE", id, nil)
	return nil
}

func (s *PlayerService) auditLog(ctx context.Context, userID int64, action string, entityID int64, detail map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, domain.AuditEntry{
		UserID:   userID,
		Action:   action,
		Entity:   "Player",
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "player_service: audit log failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
