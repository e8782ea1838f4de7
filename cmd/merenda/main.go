package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/merenda-app/merenda/internal/app"
	"github.com/merenda-app/merenda/internal/audit"
	"github.com/merenda-app/merenda/internal/auth"
	"github.com/merenda-app/merenda/internal/masterdata"
	"github.com/merenda-app/merenda/internal/masterdata/categories"
	"github.com/merenda-app/merenda/internal/masterdata/kits"
	"github.com/merenda-app/merenda/internal/masterdata/menutypes"
	"github.com/merenda-app/merenda/internal/masterdata/products"
	"github.com/merenda-app/merenda/internal/menu"
	"github.com/merenda-app/merenda/internal/observability"
	"github.com/merenda-app/merenda/internal/platform/cache"
	"github.com/merenda-app/merenda/internal/platform/db"
	"github.com/merenda-app/merenda/internal/rbac"
	"github.com/merenda-app/merenda/internal/reports"
	"github.com/merenda-app/merenda/internal/reports/export"
	reporthttp "github.com/merenda-app/merenda/internal/reports/http"
	"github.com/merenda-app/merenda/internal/shared"
	"github.com/merenda-app/merenda/internal/users"
	"github.com/merenda-app/merenda/jobs"
	"github.com/merenda-app/merenda/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "merenda_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)

	policy := rbac.NewPolicy(dbpool)
	guard := rbac.Middleware{Policy: policy, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, policy, sessionManager, csrfManager)

	usersService := users.NewService(users.NewRepository(dbpool), policy)
	usersHandler := users.NewHandler(logger, usersService, auditLogger, guard)

	categoriesService := categories.NewService(categories.NewRepository(dbpool))
	productsService := products.NewService(products.NewRepository(dbpool))
	kitsService := kits.NewService(kits.NewRepository(dbpool))
	menuTypesService := menutypes.NewService(menutypes.NewRepository(dbpool))
	masterdataHandler := masterdata.NewHandler(logger, categoriesService, productsService, kitsService, menuTypesService, guard)

	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("report cache subscribe", slog.Any("error", err))
	}
	reportsService := reports.NewService(reports.NewPGRepository(dbpool), reportsCache)
	pdfExporter := &export.PDFExporter{Renderer: report.NewClient(cfg.GotenbergURL)}
	reportsHandler := reporthttp.NewHandler(logger, reportsService, pdfExporter, guard)

	menuService := menu.NewService(
		logger,
		menu.NewPGRepository(dbpool),
		menu.NewTxRepository(dbpool),
		productsService,
		kitsService,
		reportsCache,
		auditLogger,
	)
	menuHandler := menu.NewHandler(logger, menuService, guard)

	auditService := audit.NewService(audit.NewRepository(dbpool))
	auditHandler := audit.NewHandler(logger, auditService, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, guard, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       authHandler,
		UsersHandler:      usersHandler,
		MasterDataHandler: masterdataHandler,
		MenuHandler:       menuHandler,
		ReportsHandler:    reportsHandler,
		AuditHandler:      auditHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
