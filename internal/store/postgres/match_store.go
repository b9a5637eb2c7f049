package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// MatchStore implements domain.MatchStore using PostgreSQL.
type MatchStore struct {
	pool *pgxpool.Pool
}

// NewMatchStore creates a new MatchStore backed by the given connection pool.
func NewMatchStore(pool *pgxpool.Pool) *MatchStore {
	return &MatchStore{pool: pool}
}

const matchCols = `id, home_team_id, away_team_id, date, status,
	home_score, away_score, created_by_id, created_at, updated_at`

func scanMatch(row pgx.Row) (domain.Match, error) {
	var m domain.Match
	var status string
	var createdBy *int64
	err := row.Scan(
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.Date, &status,
		&m.HomeScore, &m.AwayScore, &createdBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Match{}, err
	}
	m.Status = domain.MatchStatus(status)
	if createdBy != nil {
		m.CreatedByID = *createdBy
	}
	return m, nil
}

// Create inserts a new match and returns it with its generated id.
func (s *MatchStore) Create(ctx context.Context, match domain.Match) (domain.Match, error) {
	const query = `
		INSERT INTO matches (home_team_id, away_team_id, date, status, home_score, away_score, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, 0))
		RETURNING ` + matchCols

	row := s.pool.QueryRow(ctx, query,
		match.HomeTeamID, match.AwayTeamID, match.Date, string(match.Status),
		match.HomeScore, match.AwayScore, match.CreatedByID,
	)
	created, err := scanMatch(row)
	if err != nil {
		return domain.Match{}, fmt.Errorf("postgres: create match: %w", err)
	}
	return created, nil
}

// Delete removes a match by id.
func (s *MatchStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete match %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a match by its primary key.
func (s *MatchStore) GetByID(ctx context.Context, id int64) (domain.Match, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+matchCols+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Match{}, domain.ErrNotFound
		}
		return domain.Match{}, fmt.Errorf("postgres: get match %d: %w", id, err)
	}
	return m, nil
}

// List returns matches ordered by date descending, optionally filtered by
// status.
func (s *MatchStore) List(ctx context.Context, status domain.MatchStatus, opts domain.ListOpts) ([]domain.Match, error) {
	query := `SELECT ` + matchCols + ` FROM matches`
	args := []any{}
	argIdx := 1

	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, string(status))
		argIdx++
	}

	query += " ORDER BY date DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list matches rows: %w", err)
	}
	return matches, nil
}

// SettleResult records the final score of a match and updates both teams'
// aggregates inside a single transaction, together with the audit entry.
// A crash mid-settlement therefore never leaves half-updated team rows.
// Settling an already finished match returns ErrAlreadyExists.
func (s *MatchStore) SettleResult(ctx context.Context, id int64, homeScore, awayScore int, userID int64) (domain.Match, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Match{}, fmt.Errorf("postgres: begin settle tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+matchCols+` FROM matches WHERE id = $1 FOR UPDATE`, id)
	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Match{}, domain.ErrNotFound
		}
		return domain.Match{}, fmt.Errorf("postgres: lock match %d: %w", id, err)
	}
	if match.Status == domain.MatchStatusFinished {
		return domain.Match{}, domain.ErrAlreadyExists
	}

	row = tx.QueryRow(ctx, `
		UPDATE matches SET home_score = $2, away_score = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+matchCols,
		id, homeScore, awayScore, string(domain.MatchStatusFinished),
	)
	settled, err := scanMatch(row)
	if err != nil {
		return domain.Match{}, fmt.Errorf("postgres: settle match %d: %w", id, err)
	}

	homeWon := homeScore > awayScore
	if err := applyResultToTeam(ctx, tx, settled.HomeTeamID, homeScore, awayScore, homeWon); err != nil {
		return domain.Match{}, err
	}
	if err := applyResultToTeam(ctx, tx, settled.AwayTeamID, awayScore, homeScore, !homeWon); err != nil {
		return domain.Match{}, err
	}

	detail, err := json.Marshal(map[string]any{
		"homeScore": homeScore,
		"awayScore": awayScore,
	})
	if err != nil {
		return domain.Match{}, fmt.Errorf("postgres: marshal settle audit detail: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO audit_log (user_id, action, entity, entity_id, detail)
		VALUES ($1, 'UPDATE_RESULT', 'Match', $2, $3)`,
		userID, id, detail,
	); err != nil {
		return domain.Match{}, fmt.Errorf("postgres: audit settle of match %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Match{}, fmt.Errorf("postgres: commit settle of match %d: %w", id, err)
	}
	return settled, nil
}

// applyResultToTeam increments the team's win/loss counters and folds the
// game's points into its running per-game averages.
func applyResultToTeam(ctx context.Context, tx pgx.Tx, teamID int64, scored, conceded int, won bool) error {
	var wins, losses int
	var ppg, pa float64
	err := tx.QueryRow(ctx, `
		SELECT wins, losses, points_per_game, points_against
		FROM teams WHERE id = $1 FOR UPDATE`, teamID,
	).Scan(&wins, &losses, &ppg, &pa)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("postgres: lock team %d: %w", teamID, err)
	}

	if won {
		wins++
	} else {
		losses++
	}
	games := float64(wins + losses)
	ppg = (ppg*(games-1) + float64(scored)) / games
	pa = (pa*(games-1) + float64(conceded)) / games

	if _, err := tx.Exec(ctx, `
		UPDATE teams SET wins = $2, losses = $3, points_per_game = $4, points_against = $5, updated_at = NOW()
		WHERE id = $1`,
		teamID, wins, losses, ppg, pa,
	); err != nil {
		return fmt.Errorf("postgres: update team %d aggregates: %w", teamID, err)
	}
	return nil
}
