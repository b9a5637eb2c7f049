package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/notify"
)

// MatchService manages the schedule and settles finished games.
type MatchService struct {
	matches  domain.MatchStore
	teams    domain.TeamStore
	cache    domain.TeamCache
	audit    domain.AuditStore
	hub      Broadcaster
	notifier Notifier
	logger   *slog.Logger
}

// NewMatchService creates a MatchService. Cache, audit, hub and notifier are
// optional.
func NewMatchService(
	matches domain.MatchStore,
	teams domain.TeamStore,
	cache domain.TeamCache,
	audit domain.AuditStore,
	hub Broadcaster,
	notifier Notifier,
	logger *slog.Logger,
) *MatchService {
	return &MatchService{
		matches:  matches,
		teams:    teams,
		cache:    cache,
		audit:    audit,
		hub:      hub,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns matches, optionally filtered by status.
func (s *MatchService) List(ctx context.Context, status domain.MatchStatus, opts domain.ListOpts) ([]domain.Match, error) {
	return s.matches.List(ctx, status, opts)
}

// Get retrieves one match.
func (s *MatchService) Get(ctx context.Context, id int64) (domain.Match, error) {
	return s.matches.GetByID(ctx, id)
}

// Create schedules a match between two distinct existing teams.
func (s *MatchService) Create(ctx context.Context, match domain.Match, userID int64) (domain.Match, error) {
	if match.HomeTeamID == match.AwayTeamID {
		return domain.Match{}, fmt.Errorf("%w: a team cannot play itself", domain.ErrInvalidInput)
	}
	if match.Date.IsZero() {
		match.Date = time.Now()
	}
	for _, teamID := range []int64{match.HomeTeamID, match.AwayTeamID} {
		if _, err := s.teams.GetByID(ctx, teamID); err != nil {
			return domain.Match{}, err
		}
	}
	if match.Status == "" {
		match.Status = domain.MatchStatusScheduled
	}
	match.CreatedByID = userID

	created, err := s.matches.Create(ctx, match)
	if err != nil {
		return domain.Match{}, err
	}

	s.auditLog(ctx, userID, "CREATE", created.ID, map[string]any{
		"homeTeamId": created.HomeTeamID,
		"awayTeamId": created.AwayTeamID,
	})
	return created, nil
}

// SettleResult records the final score of a match and updates both team
// records in a single transaction. Settling an already finished match
// returns domain.ErrAlreadyExists.
func (s *MatchService) SettleResult(ctx context.Context, id int64, homeScore, awayScore int, userID int64) (domain.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return domain.Match{}, fmt.Errorf("%w: scores must be non-negative", domain.ErrInvalidInput)
	}

	settled, err := s.matches.SettleResult(ctx, id, homeScore, awayScore, userID)
	if err != nil {
		return domain.Match{}, err
	}

	// Team win/loss counters changed, stale cache entries must go.
	s.invalidate(ctx, settled.HomeTeamID)
	s.invalidate(ctx, settled.AwayTeamID)

	if s.hub != nil {
		s.hub.Broadcast("match_result", settled)
	}
	if s.notifier != nil {
		s.sendAlert(ctx, notify.EventMatchSettled, "Match settled",
			fmt.Sprintf("Match #%d finished %d:%d (teams %d vs %d)",
				settled.ID, homeScore, awayScore, settled.HomeTeamID, settled.AwayTeamID))
	}

	s.logger.InfoContext(ctx, "match settled",
		slog.Int64("match_id", settled.ID),
		slog.Int("home_score", homeScore),
		slog.Int("away_score", awayScore),
	)
	return settled, nil
}

// Delete removes a match.
func (s *MatchService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.matches.Delete(ctx, id); err != nil {
		return err
	}
	s.auditLog(ctx, userID, "DELETE", id, nil)
	return nil
}

// sendAlert delivers the alert in the background so a slow channel never
// delays the settlement response.
func (s *MatchService) sendAlert(ctx context.Context, event, title, body string) {
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		if err := s.notifier.Notify(nctx, event, title, body); err != nil {
			s.logger.WarnContext(nctx, "match_service: alert delivery failed",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (s *MatchService) invalidate(ctx context.Context, teamID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, teamID); err != nil {
		s.logger.WarnContext(ctx, "match_service: cache invalidation failed",
			slog.Int64("team_id", teamID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *MatchService) auditLog(ctx context.Context, userID int64, action string, entityID int64, detail map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, domain.AuditEntry{
		UserID:   userID,
		Action:   action,
		Entity:   "Match",
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "match_service: audit log failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
