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
// built-in defaults, applies ARBINTENT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ARBINTENT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// Engine
	setStr(&cfg.Engine.ContractName, "ARBINTENT_ENGINE_CONTRACT_NAME")
	setStr(&cfg.Engine.ContractVersion, "ARBINTENT_ENGINE_CONTRACT_VERSION")
	setStr(&cfg.Engine.OwnerAccount, "ARBINTENT_ENGINE_OWNER_ACCOUNT")
	setInt(&cfg.Engine.MinorUnitDecimals, "ARBINTENT_ENGINE_MINOR_UNIT_DECIMALS")
	setFloat64(&cfg.Engine.CaptureRatio, "ARBINTENT_ENGINE_CAPTURE_RATIO")
	setFloat64(&cfg.Engine.GasFee, "ARBINTENT_ENGINE_GAS_FEE")

	// Postgres
	setStr(&cfg.Postgres.DSN, "ARBINTENT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "ARBINTENT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "ARBINTENT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "ARBINTENT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "ARBINTENT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "ARBINTENT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "ARBINTENT_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "ARBINTENT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "ARBINTENT_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "ARBINTENT_POSTGRES_RUN_MIGRATIONS")

	// Redis
	setStr(&cfg.Redis.Addr, "ARBINTENT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ARBINTENT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ARBINTENT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ARBINTENT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ARBINTENT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ARBINTENT_REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.SettlementStream, "ARBINTENT_REDIS_SETTLEMENT_STREAM")

	// S3
	setStr(&cfg.S3.Endpoint, "ARBINTENT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ARBINTENT_S3_REGION")
	setStr(&cfg.S3.Bucket, "ARBINTENT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "ARBINTENT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ARBINTENT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ARBINTENT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ARBINTENT_S3_FORCE_PATH_STYLE")
	setDuration(&cfg.S3.ArchiveInterval, "ARBINTENT_S3_ARCHIVE_INTERVAL")

	// Server
	setInt(&cfg.Server.Port, "ARBINTENT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ARBINTENT_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "ARBINTENT_SERVER_API_KEY")

	// Notify
	setStr(&cfg.Notify.TelegramToken, "ARBINTENT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ARBINTENT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ARBINTENT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ARBINTENT_NOTIFY_EVENTS")

	// Top-level
	setStr(&cfg.Mode, "ARBINTENT_MODE")
	setStr(&cfg.LogLevel, "ARBINTENT_LOG_LEVEL")
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

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
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
