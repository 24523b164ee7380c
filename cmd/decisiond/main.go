package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/api"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/config"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/events"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/metrics"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/store"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Engine
	eng, err := engine.New(
		engine.WeightSet{
			Cost:        cfg.Engine.Weights.Cost,
			Latency:     cfg.Engine.Weights.Latency,
			Scalability: cfg.Engine.Weights.Scalability,
			Compliance:  cfg.Engine.Weights.Compliance,
			Cloud:       cfg.Engine.Weights.Cloud,
			Skill:       cfg.Engine.Weights.Skill,
		},
		engine.Tunables{
			OverBudgetPenalty:    cfg.Engine.Tunables.OverBudgetPenalty,
			OverLatencyPenalty:   cfg.Engine.Tunables.OverLatencyPenalty,
			UnderScalePenalty:    cfg.Engine.Tunables.UnderScalePenalty,
			ComplianceGapPenalty: cfg.Engine.Tunables.ComplianceGapPenalty,
			SkillGapPenalty:      cfg.Engine.Tunables.SkillGapPenalty,
			CloudMismatchScore:   cfg.Engine.Tunables.CloudMismatchScore,
			TradeoffThreshold:    cfg.Engine.Tunables.TradeoffThreshold,
			HighImpactGap:        cfg.Engine.Tunables.HighImpactGap,
			MediumImpactGap:      cfg.Engine.Tunables.MediumImpactGap,
		},
		cfg.Engine.ScorePrecision,
		logger,
	)
	if err != nil {
		logger.Error("invalid engine configuration", "error", err)
		os.Exit(1)
	}

	// Store
	db, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("store ready", "driver", cfg.Store.Driver)

	m := metrics.New(prometheus.DefaultRegisterer)

	// NATS (optional)
	var eventsClient events.Client
	if cfg.NATS.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.NATS.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to nats", "url", cfg.NATS.URL)
		}
	}

	// Async comparison worker, only with a live events connection
	if eventsClient != nil {
		comparisonWorker := worker.New(db, eventsClient, eng, m, logger)
		if err := comparisonWorker.Start(ctx); err != nil {
			logger.Warn("failed to start comparison worker", "error", err)
		} else {
			defer comparisonWorker.Stop()
			logger.Info("comparison worker started")
		}
	}

	// API server
	router := api.NewRouter(db, eventsClient, eng, m, cfg.Server.AdminToken, cfg.Server.RateLimitPerMinute, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return store.NewPostgresStore(ctx, cfg.DSN)
	case config.DriverSQLite:
		return store.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
