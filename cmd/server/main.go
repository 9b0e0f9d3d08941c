package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/etiquetas/internal/config"
	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/history"
	"github.com/JonMunkholm/etiquetas/internal/labels"
	"github.com/JonMunkholm/etiquetas/internal/logging"
	"github.com/JonMunkholm/etiquetas/internal/metrics"
	"github.com/JonMunkholm/etiquetas/internal/productcode"
	"github.com/JonMunkholm/etiquetas/internal/service"
	"github.com/JonMunkholm/etiquetas/internal/sources"
	"github.com/JonMunkholm/etiquetas/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists; real environment variables win
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	historyLog, closeHistory, err := openHistory(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open import history", "backend", cfg.Database.HistoryBackend(), "error", err)
		os.Exit(1)
	}
	defer closeHistory()
	slog.Info("import history ready", "backend", cfg.Database.HistoryBackend())

	m := metrics.New()

	svc, err := service.New(service.Deps{
		Records:  core.NewRecordStore(cfg.Storage.DataPath),
		Mappings: productcode.NewStore(cfg.Storage.MappingPath),
		Engine: labels.NewEngine(labels.Config{
			StampDirs: cfg.Labels.StampDirs,
			Sender:    cfg.Labels.Sender,
			ORBaseID:  cfg.Labels.ORBaseID,
		}),
		Fetcher:     sources.NewSheetFetcher(nil, cfg.Import.FetchTimeout),
		History:     historyLog,
		Limiter:     core.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		Metrics:     m,
		CacheTTL:    cfg.Labels.CacheTTL,
		MaxFileSize: int64(cfg.Import.MaxFileSize),
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(svc, cfg, m)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight imports and renders finish (with timeout)
		if status := svc.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := svc.WaitForIdle(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openHistory picks the import history backend: PostgreSQL when a URL is
// configured, SQLite when a path is, memory otherwise.
func openHistory(ctx context.Context, cfg config.DatabaseConfig) (history.Log, func(), error) {
	switch cfg.HistoryBackend() {
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		poolConfig.MaxConns = int32(cfg.MaxConns)
		poolConfig.MinConns = int32(cfg.MinConns)
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		log := history.NewPgLog(pool)
		if err := log.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return log, pool.Close, nil

	case "sqlite":
		log, err := history.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return log, func() { log.Close() }, nil

	default:
		return history.NewMemoryLog(0), func() {}, nil
	}
}
