package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// HistoricalStore implements domain.HistoricalStore using PostgreSQL.
type HistoricalStore struct {
	pool *pgxpool.Pool
}

// NewHistoricalStore creates a new HistoricalStore backed by the given
// connection pool.
func NewHistoricalStore(pool *pgxpool.Pool) *HistoricalStore {
	return &HistoricalStore{pool: pool}
}

const historicalCols = `id, team1_id, team2_id, season, match_date,
	team1_win_rate, team1_avg_score, team1_avg_conceded,
	team2_win_rate, team2_avg_score, team2_avg_conceded,
	team1_form, team2_form, team1_h2h_wins, team2_h2h_wins,
	actual_winner_id, actual_score1, actual_score2, point_difference,
	evaluated_at, trained_at, created_at`

func scanHistorical(row pgx.Row) (domain.HistoricalRecord, error) {
	var r domain.HistoricalRecord
	err := row.Scan(
		&r.ID, &r.Team1ID, &r.Team2ID, &r.Season, &r.MatchDate,
		&r.Team1WinRate, &r.Team1AvgScore, &r.Team1AvgConceded,
		&r.Team2WinRate, &r.Team2AvgScore, &r.Team2AvgConceded,
		&r.Team1Form, &r.Team2Form, &r.Team1H2HWins, &r.Team2H2HWins,
		&r.ActualWinnerID, &r.ActualScore1, &r.ActualScore2, &r.PointDifference,
		&r.EvaluatedAt, &r.TrainedAt, &r.CreatedAt,
	)
	return r, err
}

func collectHistorical(rows pgx.Rows) ([]domain.HistoricalRecord, error) {
	defer rows.Close()
	var recs []domain.HistoricalRecord
	for rows.Next() {
		r, err := scanHistorical(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan historical record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: historical rows: %w", err)
	}
	return recs, nil
}

// Create inserts a new historical record and returns it with its id.
func (s *HistoricalStore) Create(ctx context.Context, rec domain.HistoricalRecord) (domain.HistoricalRecord, error) {
	const query = `
		INSERT INTO historical_records (
			team1_id, team2_id, season, match_date,
			team1_win_rate, team1_avg_score, team1_avg_conceded,
			team2_win_rate, team2_avg_score, team2_avg_conceded,
			team1_form, team2_form, team1_h2h_wins, team2_h2h_wins,
			actual_winner_id, actual_score1, actual_score2, point_difference
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18
		)
		RETURNING ` + historicalCols

	row := s.pool.QueryRow(ctx, query,
		rec.Team1ID, rec.Team2ID, rec.Season, rec.MatchDate,
		rec.Team1WinRate, rec.Team1AvgScore, rec.Team1AvgConceded,
		rec.Team2WinRate, rec.Team2AvgScore, rec.Team2AvgConceded,
		rec.Team1Form, rec.Team2Form, rec.Team1H2HWins, rec.Team2H2HWins,
		rec.ActualWinnerID, rec.ActualScore1, rec.ActualScore2, rec.PointDifference,
	)
	created, err := scanHistorical(row)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("postgres: create historical record: %w", err)
	}
	return created, nil
}

// ListByTeam returns up to limit records involving the team, newest first.
func (s *HistoricalStore) ListByTeam(ctx context.Context, teamID int64, limit int) ([]domain.HistoricalRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+historicalCols+` FROM historical_records
		WHERE team1_id = $1 OR team2_id = $1
		ORDER BY match_date DESC
		LIMIT $2`, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list history for team %d: %w", teamID, err)
	}
	return collectHistorical(rows)
}

// ListHeadToHead returns up to limit records between the two teams in
// either order, newest first.
func (s *HistoricalStore) ListHeadToHead(ctx context.Context, team1ID, team2ID int64, limit int) ([]domain.HistoricalRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+historicalCols+` FROM historical_records
		WHERE (team1_id = $1 AND team2_id = $2) OR (team1_id = $2 AND team2_id = $1)
		ORDER BY match_date DESC
		LIMIT $3`, team1ID, team2ID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list head-to-head %d vs %d: %w", team1ID, team2ID, err)
	}
	return collectHistorical(rows)
}

// ClaimUnevaluated atomically marks up to limit unevaluated records,
// newest first, and returns them. Concurrent callers never receive the
// same record.
func (s *HistoricalStore) ClaimUnevaluated(ctx context.Context, limit int) ([]domain.HistoricalRecord, error) {
	rows, err := s.pool.Query(ctx, `
		UPDATE historical_records SET evaluated_at = NOW()
		WHERE id IN (
			SELECT id FROM historical_records
			WHERE evaluated_at IS NULL
			ORDER BY match_date DESC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+historicalCols, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: claim unevaluated records: %w", err)
	}
	return collectHistorical(rows)
}

// ClaimUntrained atomically marks up to limit untrained records and
// returns them.
func (s *HistoricalStore) ClaimUntrained(ctx context.Context, limit int) ([]domain.HistoricalRecord, error) {
	rows, err := s.pool.Query(ctx, `
		UPDATE historical_records SET trained_at = NOW()
		WHERE id IN (
			SELECT id FROM historical_records
			WHERE trained_at IS NULL
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+historicalCols, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: claim untrained records: %w", err)
	}
	return collectHistorical(rows)
}

// Count returns the total number of historical records.
func (s *HistoricalStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM historical_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count historical records: %w", err)
	}
	return count, nil
}
