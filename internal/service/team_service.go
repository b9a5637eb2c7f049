package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// TeamService manages teams and their rosters.
type TeamService struct {
	teams   domain.TeamStore
	players domain.PlayerStore
	cache   domain.TeamCache
	audit   domain.AuditStore
	logger  *slog.Logger
}

// NewTeamService creates a TeamService. Cache and audit are optional.
func NewTeamService(
	teams domain.TeamStore,
	players domain.PlayerStore,
	cache domain.TeamCache,
	audit domain.AuditStore,
	logger *slog.Logger,
) *TeamService {
	return &TeamService{
		teams:   teams,
		players: players,
		cache:   cache,
		audit:   audit,
		logger:  logger,
	}
}

// List returns all teams ordered by wins.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("team_service: list: %w", err)
	}
	return teams, nil
}

// Get retrieves a team, checking the cache first.
func (s *TeamService) Get(ctx context.Context, id int64) (domain.Team, error) {
	if s.cache != nil {
		if team, err := s.cache.Get(ctx, id); err == nil {
			return team, nil
		}
	}

	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return domain.Team{}, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, team); cacheErr != nil {
			s.logger.WarnContext(ctx, "team_service: cache set failed",
				slog.Int64("team_id", id),
				slog.String("error", cacheErr.Error()),
			)
		}
	}
	return team, nil
}

// Create stores a new team.
func (s *TeamService) Create(ctx context.Context, team domain.Team, userID int64) (domain.Team, error) {
	if team.Name == "" {
		return domain.Team{}, fmt.Errorf("%w: team name is required", domain.ErrInvalidInput)
	}

	created, err := s.teams.Create(ctx, team)
	if err != nil {
		return domain.Team{}, err
	}

	s.auditLog(ctx, userID, "CREATE", created.ID, map[string]any{"name": created.Name})
	return created, nil
}

// Update overwrites a team and invalidates its cache entry.
func (s *TeamService) Update(ctx context.Context, team domain.Team, userID int64) (domain.Team, error) {
	updated, err := s.teams.Update(ctx, team)
	if err != nil {
		return domain.Team{}, err
	}

	s.invalidate(ctx, team.ID)
	s.auditLog(ctx, userID, "UPDATE", updated.ID, map[string]any{"name": updated.Name})
	return updated, nil
}

// Delete removes a team and invalidates its cache entry.
func (s *TeamService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.teams.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.auditLog(ctx, userID, "DELETE", id, nil)
	return nil
}

// Roster returns a team's players, active players and top scorers first.
func (s *TeamService) Roster(ctx context.Context, teamID int64) ([]domain.Player, error) {
	if _, err := s.Get(ctx, teamID); err != nil {
		return nil, err
	}
	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("team_service: roster for team %d: %w", teamID, err)
	}
	return players, nil
}

func (s *TeamService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "team_service: cache invalidate failed",
			slog.Int64("team_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (s *TeamService) auditLog(ctx context.Context, userID int64, action string, entityID int64, detail map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, domain.AuditEntry{
		UserID:   userID,
		Action:   action,
		Entity:   "Team",
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "team_service: audit log failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
