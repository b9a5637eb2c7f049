package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HEGATNB/kyrsach-basketball/internal/cache/redis"
	"github.com/HEGATNB/kyrsach-basketball/internal/config"
	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application modes
// need. It is constructed by Wire and torn down by the returned cleanup
// function. The cache fields are nil when Redis is disabled; the services
// degrade to direct store reads.
type Dependencies struct {
	Teams   domain.TeamStore
	Players domain.PlayerStore
	Matches domain.MatchStore
	History domain.HistoricalStore
	Preds   domain.PredictionStore
	Users   domain.UserStore
	Audit   domain.AuditStore

	TeamCache     domain.TeamCache
	AccuracyCache domain.AccuracyCache
	RateLimiter   domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.Teams = postgres.NewTeamStore(pool)
	deps.Players = postgres.NewPlayerStore(pool)
	deps.Matches = postgres.NewMatchStore(pool)
	deps.History = postgres.NewHistoricalStore(pool)
	deps.Preds = postgres.NewPredictionStore(pool)
	deps.Users = postgres.NewUserStore(pool)
	deps.Audit = postgres.NewAuditStore(pool)

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.TeamCache = redis.NewTeamCache(redisClient)
		deps.AccuracyCache = redis.NewAccuracyCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	} else {
		logger.InfoContext(ctx, "redis disabled, running without caches or rate limiting")
	}

	return deps, cleanup, nil
}
