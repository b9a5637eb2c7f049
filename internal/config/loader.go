package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies BASKET_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known BASKET_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "BASKET_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "BASKET_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "BASKET_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "BASKET_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "BASKET_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "BASKET_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "BASKET_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "BASKET_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "BASKET_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "BASKET_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "BASKET_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "BASKET_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "BASKET_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "BASKET_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "BASKET_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "BASKET_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "BASKET_REDIS_TLS_ENABLED")

	// ── Auth ──
	setStr(&cfg.Auth.JWTSecret, "BASKET_AUTH_JWT_SECRET")
	setStr(&cfg.Auth.JWTSecret, "JWT_SECRET") // compatibility alias
	setDuration(&cfg.Auth.TokenTTL, "BASKET_AUTH_TOKEN_TTL")

	// ── Model ──
	setDuration(&cfg.Model.FetchTimeout, "BASKET_MODEL_FETCH_TIMEOUT")

	// ── Server ──
	setInt(&cfg.Server.Port, "BASKET_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "BASKET_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.AuthRateLimit, "BASKET_SERVER_AUTH_RATE_LIMIT")
	setDuration(&cfg.Server.AuthRateWindow, "BASKET_SERVER_AUTH_RATE_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramBotToken, "BASKET_NOTIFY_TELEGRAM_BOT_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "BASKET_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "BASKET_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "BASKET_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "BASKET_MODE")
	setStr(&cfg.LogLevel, "BASKET_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
