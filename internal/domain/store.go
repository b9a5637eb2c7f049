package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// TeamStore persists teams and their running aggregates.
type TeamStore interface {
	Create(ctx context.Context, team Team) (Team, error)
	Update(ctx context.Context, team Team) (Team, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Team, error)
	List(ctx context.Context) ([]Team, error)
}

// PlayerStore persists team rosters.
type PlayerStore interface {
	Create(ctx context.Context, player Player) (Player, error)
	Update(ctx context.Context, player Player) (Player, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Player, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
}

// MatchStore persists matches. SettleResult records the final score, marks
// the match finished, updates both teams' win/loss and points aggregates,
// and appends the audit entry, all inside a single transaction.
type MatchStore interface {
	Create(ctx context.Context, match Match) (Match, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Match, error)
	List(ctx context.Context, status MatchStatus, opts ListOpts) ([]Match, error)
	SettleResult(ctx context.Context, id int64, homeScore, awayScore int, userID int64) (Match, error)
}

// HistoricalStore persists the immutable match snapshots that feed the
// prediction model. The Claim methods atomically select records whose
// corresponding marker is unset and set it, so two concurrent evaluation
// or training passes never consume the same record twice.
type HistoricalStore interface {
	Create(ctx context.Context, rec HistoricalRecord) (HistoricalRecord, error)
	// ListByTeam returns up to limit records involving the team, newest first.
	ListByTeam(ctx context.Context, teamID int64, limit int) ([]HistoricalRecord, error)
	// ListHeadToHead returns up to limit records between the two teams in
	// either order, newest first.
	ListHeadToHead(ctx context.Context, team1ID, team2ID int64, limit int) ([]HistoricalRecord, error)
	// ClaimUnevaluated marks up to limit unevaluated records, newest first,
	// and returns them.
	ClaimUnevaluated(ctx context.Context, limit int) ([]HistoricalRecord, error)
	// ClaimUntrained marks up to limit untrained records and returns them.
	ClaimUntrained(ctx context.Context, limit int) ([]HistoricalRecord, error)
	Count(ctx context.Context) (int64, error)
}

// PredictionStore persists computed predictions. Records are never mutated
// or deleted.
type PredictionStore interface {
	Create(ctx context.Context, p Prediction) (Prediction, error)
	GetByID(ctx context.Context, id string) (Prediction, error)
	ListByUser(ctx context.Context, userID int64, opts ListOpts) ([]Prediction, error)
	Count(ctx context.Context) (int64, error)
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, e AuditEntry) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}

// TeamCache is a read-through cache over team rows.
type TeamCache interface {
	Get(ctx context.Context, id int64) (Team, error)
	Set(ctx context.Context, team Team) error
	Invalidate(ctx context.Context, id int64) error
}

// RateLimiter answers whether the caller identified by key may make another
// request within the window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// AccuracyCache stores the most recently measured model accuracy so stats
// reads do not consume further evaluation data.
type AccuracyCache interface {
	Set(ctx context.Context, accuracy float64, sampleSize int) error
	// Get returns ErrNotFound when no evaluation has been recorded yet.
	Get(ctx context.Context) (accuracy float64, sampleSize int, err error)
}
