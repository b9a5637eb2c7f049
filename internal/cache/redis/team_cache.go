package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

const teamTTL = 5 * time.Minute

// TeamCache implements domain.TeamCache using Redis string keys holding
// JSON-serialized team rows.
//
// Key schema:
//
//	team:{id} - JSON-encoded domain.Team
type TeamCache struct {
	rdb *redis.Client
}

// NewTeamCache creates a TeamCache backed by the given Client.
func NewTeamCache(c *Client) *TeamCache {
	return &TeamCache{rdb: c.rdb}
}

func teamKey(id int64) string { return "team:" + strconv.FormatInt(id, 10) }

// Set stores a team with a 5-minute TTL.
func (tc *TeamCache) Set(ctx context.Context, team domain.Team) error {
	data, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("redis: marshal team %d: %w", team.ID, err)
	}
	if err := tc.rdb.Set(ctx, teamKey(team.ID), data, teamTTL).Err(); err != nil {
		return fmt.Errorf("redis: set team %d: %w", team.ID, err)
	}
	return nil
}

// Get retrieves a team by id. It returns domain.ErrNotFound when the key
// does not exist.
func (tc *TeamCache) Get(ctx context.Context, id int64) (domain.Team, error) {
	data, err := tc.rdb.Get(ctx, teamKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Team{}, domain.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("redis: get team %d: %w", id, err)
	}

	var team domain.Team
	if err := json.Unmarshal(data, &team); err != nil {
		return domain.Team{}, fmt.Errorf("redis: unmarshal team %d: %w", id, err)
	}
	return team, nil
}

// Invalidate drops the cached entry for a team.
func (tc *TeamCache) Invalidate(ctx context.Context, id int64) error {
	if err := tc.rdb.Del(ctx, teamKey(id)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate team %d: %w", id, err)
	}
	return nil
}
