package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "github.com/Emmy123222/arbintent/internal/blob/s3"
	"github.com/Emmy123222/arbintent/internal/cache/redis"
	"github.com/Emmy123222/arbintent/internal/config"
	"github.com/Emmy123222/arbintent/internal/domain"
	"github.com/Emmy123222/arbintent/internal/engine"
	"github.com/Emmy123222/arbintent/internal/notify"
	"github.com/Emmy123222/arbintent/internal/server/handler"
	"github.com/Emmy123222/arbintent/internal/server/ws"
	"github.com/Emmy123222/arbintent/internal/settlement"
	"github.com/Emmy123222/arbintent/internal/store/postgres"
)

// Dependencies bundles everything the run loop needs. Wire constructs it per
// the configured mode; absent components stay nil.
type Dependencies struct {
	Engine *engine.Engine

	// Server mode and above.
	SignalBus domain.SignalBus
	Hub       *ws.Hub

	// Full mode only.
	Journal  *postgres.Journal
	Archiver *s3blob.Archiver

	// Health probes for the configured backends, keyed by backend name.
	HealthChecks map[string]handler.HealthChecker
}

// needsRedis reports whether the mode runs the signal bus.
func needsRedis(mode string) bool {
	return mode == "server" || mode == "full"
}

// Wire constructs the concrete dependencies for cfg.Mode and returns them
// with a cleanup function releasing connections in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	mode := strings.ToLower(cfg.Mode)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		HealthChecks: make(map[string]handler.HealthChecker),
	}

	// Settlement defaults to the in-process stub; redis-backed modes replace
	// it with the stream dispatcher below.
	var settler domain.Settlement = settlement.NewNop(logger)

	// --- Redis signal bus (server, full) ---
	if needsRedis(mode) {
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
		closers = append(closers, func() { redisClient.Close() })

		bus := redis.NewSignalBus(redisClient)
		deps.SignalBus = bus
		deps.Hub = ws.NewHub(bus, logger)
		deps.HealthChecks["redis"] = redisClient.Ping
		settler = settlement.NewBus(bus, cfg.Redis.SettlementStream, logger)
	}

	// --- Postgres journal (full) ---
	if mode == "full" {
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

		deps.Journal = postgres.NewJournal(pgClient.Pool())
		deps.HealthChecks["postgres"] = pgClient.Pool().Ping

		// --- S3 archiver ---
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.HealthChecks["s3"] = s3Client.Health

		writer := s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewArchiver(writer, deps.Journal, cfg.S3.ArchiveInterval.Duration, logger)
	}

	// --- Event sinks ---
	var sinks []domain.EventSink
	if deps.SignalBus != nil {
		sinks = append(sinks, newBusEventSink(deps.SignalBus, logger))
	}
	if deps.Journal != nil {
		sinks = append(sinks, newJournalEventSink(deps.Journal, logger))
	}
	if notifier := buildNotifier(cfg.Notify, logger); notifier != nil {
		sinks = append(sinks, notifier)
	}

	// --- Engine ---
	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSettlement(settler),
	}
	for _, s := range sinks {
		engineOpts = append(engineOpts, engine.WithEventSink(s))
	}
	deps.Engine = engine.New(engine.Config{
		Name:              cfg.Engine.ContractName,
		Version:           cfg.Engine.ContractVersion,
		Owner:             cfg.Engine.OwnerAccount,
		MinorUnitDecimals: cfg.Engine.MinorUnitDecimals,
		CaptureRatio:      cfg.Engine.CaptureRatio,
		GasFee:            cfg.Engine.GasFee,
	}, engineOpts...)

	return deps, cleanup, nil
}

// buildNotifier assembles the notifier from configured channels, or returns
// nil when no channel is configured.
func buildNotifier(cfg config.NotifyConfig, logger *slog.Logger) *notify.Notifier {
	var senders []notify.Sender
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID))
	}
	if cfg.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.DiscordWebhookURL))
	}
	if len(senders) == 0 {
		return nil
	}
	return notify.New(senders, cfg.Events, logger)
}
