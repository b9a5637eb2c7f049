package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestDefaultsValidateWithSecret(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateCatchesProblems(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
		{"bad mode", func(c *Config) { c.Mode = "turbo" }, "unknown mode"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad port", func(c *Config) { c.Server.Port = 99999 }, "port"},
		{"pool inversion", func(c *Config) { c.Postgres.PoolMinConns = 50 }, "pool_min_conns"},
		{"weights off", func(c *Config) { c.Model.Weights.WinRate = 0.5 }, "weights"},
		{"zero timeout", func(c *Config) { c.Model.FetchTimeout.Duration = 0 }, "fetch_timeout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate returned nil, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestTrainModeNeedsNoServerSettings(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "train"
	cfg.Auth.JWTSecret = ""
	cfg.Server.Port = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate in train mode: %v", err)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
mode = "train"
log_level = "debug"

[postgres]
host = "db.internal"
port = 5433

[model]
fetch_timeout = "3s"

[model.weights]
win_rate = 0.25
home_advantage = 0.15
recent_form = 0.20
head_to_head = 0.15
offensive_strength = 0.10
defensive_strength = 0.10
pace_advantage = 0.05
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BASKET_POSTGRES_PASSWORD", "hunter22")
	t.Setenv("BASKET_AUTH_TOKEN_TTL", "2h")
	t.Setenv("BASKET_MODE", "serve")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Port != 5433 {
		t.Errorf("postgres = %s:%d, want db.internal:5433", cfg.Postgres.Host, cfg.Postgres.Port)
	}
	if cfg.Postgres.Password != "hunter22" {
		t.Errorf("password = %q, want env override", cfg.Postgres.Password)
	}
	if cfg.Auth.TokenTTL.Duration != 2*time.Hour {
		t.Errorf("token ttl = %v, want 2h", cfg.Auth.TokenTTL.Duration)
	}
	if cfg.Mode != "serve" {
		t.Errorf("mode = %q, env should override file", cfg.Mode)
	}
	if cfg.Model.FetchTimeout.Duration != 3*time.Second {
		t.Errorf("fetch timeout = %v, want 3s", cfg.Model.FetchTimeout.Duration)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.Password = "db-pass"
	cfg.Redis.Password = "redis-pass"
	cfg.Notify.TelegramBotToken = "123:abc"
	cfg.Notify.DiscordWebhookURL = "https://discord.com/api/webhooks/1/x"

	red := RedactedConfig(&cfg)
	if red.Auth.JWTSecret != "***" || red.Postgres.Password != "***" || red.Redis.Password != "***" {
		t.Errorf("secrets not redacted: %+v", red)
	}
	if red.Notify.TelegramBotToken != "***" || red.Notify.DiscordWebhookURL != "***" {
		t.Errorf("notify secrets not redacted: %+v", red.Notify)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Error("redaction mutated the original config")
	}
}
