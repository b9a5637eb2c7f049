package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Client{rdb: rdb}
}

func TestTeamCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	tc := NewTeamCache(testClient(t))

	team := domain.Team{
		ID:            7,
		Name:          "Golden State Warriors",
		City:          "San Francisco",
		Conference:    "Western",
		Division:      "Pacific",
		Wins:          44,
		Losses:        38,
		PointsPerGame: 117.8,
		PointsAgainst: 115.2,
	}

	if err := tc.Set(ctx, team); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := tc.Get(ctx, team.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != team.Name || got.Wins != team.Wins || got.PointsPerGame != team.PointsPerGame {
		t.Errorf("Get = %+v, want %+v", got, team)
	}
}

func TestTeamCacheMiss(t *testing.T) {
	tc := NewTeamCache(testClient(t))

	_, err := tc.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestTeamCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	tc := NewTeamCache(testClient(t))

	team := domain.Team{ID: 3, Name: "Boston Celtics"}
	if err := tc.Set(ctx, team); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tc.Invalidate(ctx, team.ID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if _, err := tc.Get(ctx, team.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after Invalidate error = %v, want ErrNotFound", err)
	}
}

func TestAccuracyCache(t *testing.T) {
	ctx := context.Background()
	ac := NewAccuracyCache(testClient(t))

	if _, _, err := ac.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get before Set error = %v, want ErrNotFound", err)
	}

	if err := ac.Set(ctx, 0.6667, 3); err != nil {
		t.Fatalf("Set: %v", err)
	}

	accuracy, sample, err := ac.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if accuracy != 0.6667 || sample != 3 {
		t.Errorf("Get = %v/%d, want 0.6667/3", accuracy, sample)
	}
}
