package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/unitflow/unitflow/internal/app"
	"github.com/unitflow/unitflow/internal/customers"
	"github.com/unitflow/unitflow/internal/dashboard"
	"github.com/unitflow/unitflow/internal/dashboard/export"
	"github.com/unitflow/unitflow/internal/inventory"
	"github.com/unitflow/unitflow/internal/observability"
	"github.com/unitflow/unitflow/internal/platform/cache"
	"github.com/unitflow/unitflow/internal/platform/db"
	"github.com/unitflow/unitflow/internal/purchaseorders"
	"github.com/unitflow/unitflow/internal/sales"
	"github.com/unitflow/unitflow/internal/suppliers"
	"github.com/unitflow/unitflow/internal/targets"
	"github.com/unitflow/unitflow/jobs"
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
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("load timezone", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL).WithLogger(logger)
	dashboardService := dashboard.NewService(dashboard.NewRepository(dbpool), dashboardCache, logger, loc)
	dashboardService.WithObserver(metrics)

	supplierService := suppliers.NewService(suppliers.NewRepository(dbpool))
	purchaseOrderService := purchaseorders.NewService(purchaseorders.NewRepository(dbpool))
	inventoryService := inventory.NewService(inventory.NewRepository(dbpool), dashboardCache, logger, loc)
	customerService := customers.NewService(customers.NewRepository(dbpool), dashboardCache)
	salesService := sales.NewService(sales.NewRepository(dbpool), dashboardCache, logger, loc)
	targetService := targets.NewService(targets.NewStore(redisClient, cfg.TargetsKey), dashboardService, logger, loc)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		SuppliersHandler:      suppliers.NewHandler(logger, supplierService),
		PurchaseOrdersHandler: purchaseorders.NewHandler(logger, purchaseOrderService),
		InventoryHandler:      inventory.NewHandler(logger, inventoryService),
		CustomersHandler:      customers.NewHandler(logger, customerService),
		SalesHandler:          sales.NewHandler(logger, salesService),
		DashboardHandler:      dashboard.NewHandler(logger, dashboardService, export.WriteCSV, export.WriteXLSX),
		TargetsHandler:        targets.NewHandler(logger, targetService),
		JobHandler:            jobs.NewHandler(inspector, logger),
		Metrics:               metrics,
		Checks: map[string]app.ReadinessCheck{
			"postgres": dbpool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
