package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// PlayerStore implements domain.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *pgxpool.Pool
}

// NewPlayerStore creates a new PlayerStore backed by the given connection pool.
func NewPlayerStore(pool *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

const playerCols = `id, team_id, name, position, jersey_number,
	points_per_game, is_active, created_at, updated_at`

func scanPlayer(row pgx.Row) (domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID, &p.TeamID, &p.Name, &p.Position, &p.JerseyNumber,
		&p.PointsPerGame, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create inserts a new player and returns it with its generated id.
func (s *PlayerStore) Create(ctx context.Context, player domain.Player) (domain.Player, error) {
	const query = `
		INSERT INTO players (team_id, name, position, jersey_number, points_per_game, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + playerCols

	row := s.pool.QueryRow(ctx, query,
		player.TeamID, player.Name, player.Position,
		player.JerseyNumber, player.PointsPerGame, player.IsActive,
	)
	created, err := scanPlayer(row)
	if err != nil {
		return domain.Player{}, fmt.Errorf("postgres: create player %s: %w", player.Name, err)
	}
	return created, nil
}

// Update overwrites a player's mutable fields.
func (s *PlayerStore) Update(ctx context.Context, player domain.Player) (domain.Player, error) {
	const query = `
		UPDATE players SET
			team_id = $2, name = $3, position = $4, jersey_number = $5,
			points_per_game = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + playerCols

	row := s.pool.QueryRow(ctx, query,
		player.ID, player.TeamID, player.Name, player.Position,
		player.JerseyNumber, player.PointsPerGame, player.IsActive,
	)
	updated, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Player{}, domain.ErrNotFound
		}
		return domain.Player{}, fmt.Errorf("postgres: update player %d: %w", player.ID, err)
	}
	return updated, nil
}

// Delete removes a player by id.
func (s *PlayerStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete player %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a player by its primary key.
func (s *PlayerStore) GetByID(ctx context.Context, id int64) (domain.Player, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+playerCols+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Player{}, domain.ErrNotFound
		}
		return domain.Player{}, fmt.Errorf("postgres: get player %d: %w", id, err)
	}
	return p, nil
}

// ListByTeam returns a team's roster, active players first, top scorers first.
func (s *PlayerStore) ListByTeam(ctx context.Context, teamID int64) ([]domain.Player, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+playerCols+` FROM players WHERE team_id = $1
		 ORDER BY is_active DESC, points_per_game DESC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list players for team %d: %w", teamID, err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list players rows: %w", err)
	}
	return players, nil
}
