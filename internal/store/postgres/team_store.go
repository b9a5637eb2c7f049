package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// TeamStore implements domain.TeamStore using PostgreSQL.
type TeamStore struct {
	pool *pgxpool.Pool
}

// NewTeamStore creates a new TeamStore backed by the given connection pool.
func NewTeamStore(pool *pgxpool.Pool) *TeamStore {
	return &TeamStore{pool: pool}
}

const teamCols = `id, name, city, arena, founded_year, conference, division,
	wins, losses, points_per_game, points_against, created_at, updated_at`

func scanTeam(row pgx.Row) (domain.Team, error) {
	var t domain.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.City, &t.Arena, &t.FoundedYear,
		&t.Conference, &t.Division,
		&t.Wins, &t.Losses, &t.PointsPerGame, &t.PointsAgainst,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create inserts a new team and returns it with its generated id.
func (s *TeamStore) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	const query = `
		INSERT INTO teams (
			name, city, arena, founded_year, conference, division,
			wins, losses, points_per_game, points_against
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + teamCols

	row := s.pool.QueryRow(ctx, query,
		team.Name, team.City, team.Arena, team.FoundedYear,
		team.Conference, team.Division,
		team.Wins, team.Losses, team.PointsPerGame, team.PointsAgainst,
	)
	created, err := scanTeam(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Team{}, domain.ErrAlreadyExists
		}
		return domain.Team{}, fmt.Errorf("postgres: create team %s: %w", team.Name, err)
	}
	return created, nil
}

// Update overwrites a team's mutable fields.
func (s *TeamStore) Update(ctx context.Context, team domain.Team) (domain.Team, error) {
	const query = `
		UPDATE teams SET
			name = $2, city = $3, arena = $4, founded_year = $5,
			conference = $6, division = $7,
			wins = $8, losses = $9, points_per_game = $10, points_against = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + teamCols

	row := s.pool.QueryRow(ctx, query,
		team.ID, team.Name, team.City, team.Arena, team.FoundedYear,
		team.Conference, team.Division,
		team.Wins, team.Losses, team.PointsPerGame, team.PointsAgainst,
	)
	updated, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, domain.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("postgres: update team %d: %w", team.ID, err)
	}
	return updated, nil
}

// Delete removes a team by id.
func (s *TeamStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete team %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a team by its primary key.
func (s *TeamStore) GetByID(ctx context.Context, id int64) (domain.Team, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+teamCols+` FROM teams WHERE id = $1`, id)
	t, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, domain.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("postgres: get team %d: %w", id, err)
	}
	return t, nil
}

// List returns all teams ordered by wins descending.
func (s *TeamStore) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+teamCols+` FROM teams ORDER BY wins DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list teams rows: %w", err)
	}
	return teams, nil
}
