package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/merenda-app/merenda/internal/app"
	jobmetrics "github.com/merenda-app/merenda/internal/jobs"
	"github.com/merenda-app/merenda/internal/menu"
	"github.com/merenda-app/merenda/internal/platform/cache"
	"github.com/merenda-app/merenda/internal/platform/db"
	"github.com/merenda-app/merenda/internal/reports"
	"github.com/merenda-app/merenda/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reports.NewPGRepository(pool), reportsCache)
	metrics := jobmetrics.NewMetrics(nil)

	integrityHandler := jobs.NewCostIntegrityHandler(jobs.CostIntegrityDeps{
		Pool:    pool,
		Fixer:   menu.NewTxRepository(pool),
		Cache:   reportsCache,
		Logger:  logger,
		Metrics: metrics,
	})
	warmupHandler := jobs.NewReportsWarmupHandler(jobs.ReportsWarmupDeps{
		Service: reportsService,
		Logger:  logger,
		Metrics: metrics,
	})

	integrityTask, err := jobs.NewCostIntegrityTask(jobs.CostIntegrityPayload{})
	if err != nil {
		logger.Error("build integrity task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewReportsWarmupTask(jobs.ReportsWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCostIntegrity, Handler: integrityHandler},
			{Type: jobs.TaskReportsWarmup, Handler: warmupHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: integrityTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
