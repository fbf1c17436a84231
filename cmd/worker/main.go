package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/workers"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/touchbase/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/touchbase/pkg/config"
	"github.com/felixgeelhaar/touchbase/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	logger.Info("starting touchbase worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.LoggerForApp(cfg.AppEnv, cfg.LogLevel)

	if cfg.IsLocalMode() {
		logger.Error("worker requires DATABASE_URL; local mode runs the sweep in process")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	var publisher eventbus.Publisher
	rabbitPublisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			publisher = eventbus.NewNoopPublisher(logger)
		} else {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()
	}
	logger.Info("event publisher initialized")

	reminders := persistence.NewPostgresReminderRepository(pool)
	sweeper := workers.NewDueSweeper(reminders, publisher, logger)
	metrics := observability.NewInMemoryMetrics()

	var (
		sweepMu   sync.Mutex
		lastSweep struct {
			At        time.Time
			Published int
			Err       string
		}
	)

	location := time.UTC
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		location = loc
	} else {
		logger.Warn("invalid timezone, sweeping in UTC", "timezone", cfg.Timezone)
	}

	scheduler := cron.New(cron.WithLocation(location))
	_, err = scheduler.AddFunc(cfg.SweepSchedule, func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 30*time.Second)
		defer sweepCancel()
		sweepCtx = observability.WithCorrelationID(sweepCtx, "")

		timer := observability.StartTimer("due_sweep").WithMetrics(metrics)
		published, err := sweeper.Sweep(sweepCtx)
		timer.StopWithError(err)

		metrics.Counter(observability.MetricSweepRuns, 1)
		metrics.Counter(observability.MetricSweepPublished, int64(published))

		sweepMu.Lock()
		lastSweep.At = time.Now()
		lastSweep.Published = published
		lastSweep.Err = ""
		if err != nil {
			lastSweep.Err = err.Error()
		}
		sweepMu.Unlock()

		if err != nil {
			logger.ErrorContext(sweepCtx, "due sweep failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("due sweep scheduled", "schedule", cfg.SweepSchedule, "timezone", location.String())

	if cfg.WorkerHealthAddr != "" {
		health := observability.NewHealthRegistry()
		health.Register("database", true, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		if rabbitPublisher != nil {
			health.Register("rabbitmq", false, rabbitPublisher.Ping)
		}
		health.Register("sweep", false, func(ctx context.Context) error {
			sweepMu.Lock()
			defer sweepMu.Unlock()
			if lastSweep.Err != "" {
				return errors.New(lastSweep.Err)
			}
			return nil
		})

		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", health.Handler(2*time.Second))
		mux.HandleFunc("/readyz", health.ReadyHandler(2*time.Second))

		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down worker")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("worker stopped")
}
