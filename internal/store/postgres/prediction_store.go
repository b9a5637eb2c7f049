package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// PredictionStore implements domain.PredictionStore using PostgreSQL.
type PredictionStore struct {
	pool *pgxpool.Pool
}

// NewPredictionStore creates a new PredictionStore backed by the given
// connection pool.
func NewPredictionStore(pool *pgxpool.Pool) *PredictionStore {
	return &PredictionStore{pool: pool}
}

const predictionCols = `id, team1_id, team2_id,
	probability_team1, probability_team2,
	expected_score_team1, expected_score_team2,
	confidence, model_version, user_id, created_at`

func scanPrediction(row pgx.Row) (domain.Prediction, error) {
	var p domain.Prediction
	err := row.Scan(
		&p.ID, &p.Team1ID, &p.Team2ID,
		&p.ProbabilityTeam1, &p.ProbabilityTeam2,
		&p.ExpectedScoreTeam1, &p.ExpectedScoreTeam2,
		&p.Confidence, &p.ModelVersion, &p.UserID, &p.CreatedAt,
	)
	return p, err
}

// Create inserts a new prediction record.
func (s *PredictionStore) Create(ctx context.Context, p domain.Prediction) (domain.Prediction, error) {
	const query = `
		INSERT INTO predictions (
			id, team1_id, team2_id,
			probability_team1, probability_team2,
			expected_score_team1, expected_score_team2,
			confidence, model_version, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + predictionCols

	row := s.pool.QueryRow(ctx, query,
		p.ID, p.Team1ID, p.Team2ID,
		p.ProbabilityTeam1, p.ProbabilityTeam2,
		p.ExpectedScoreTeam1, p.ExpectedScoreTeam2,
		p.Confidence, p.ModelVersion, p.UserID,
	)
	created, err := scanPrediction(row)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("postgres: create prediction %s: %w", p.ID, err)
	}
	return created, nil
}

// GetByID retrieves a prediction by its identifier.
func (s *PredictionStore) GetByID(ctx context.Context, id string) (domain.Prediction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+predictionCols+` FROM predictions WHERE id = $1`, id)
	p, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Prediction{}, domain.ErrNotFound
		}
		return domain.Prediction{}, fmt.Errorf("postgres: get prediction %s: %w", id, err)
	}
	return p, nil
}

// ListByUser returns the user's predictions, newest first.
func (s *PredictionStore) ListByUser(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.Prediction, error) {
	query := `SELECT ` + predictionCols + ` FROM predictions WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	argIdx := 2

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
		return nil, fmt.Errorf("postgres: list predictions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var preds []domain.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list predictions rows: %w", err)
	}
	return preds, nil
}

// Count returns the total number of stored predictions.
func (s *PredictionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count predictions: %w", err)
	}
	return count, nil
}
