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

	"github.com/mutevazi/depo-api/internal/app"
	"github.com/mutevazi/depo-api/internal/audit"
	"github.com/mutevazi/depo-api/internal/clients"
	"github.com/mutevazi/depo-api/internal/orders"
	"github.com/mutevazi/depo-api/internal/platform/cache"
	"github.com/mutevazi/depo-api/internal/platform/db"
	"github.com/mutevazi/depo-api/internal/storage"
	"github.com/mutevazi/depo-api/jobs"
)

func main() {
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Stock reads degrade to the database when Redis is unavailable, so a
	// failed ping only warns.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	clientRepo := clients.NewRepository(pool)
	clientService := clients.NewService(clientRepo)
	authMiddleware := clients.Middleware{Service: clientService, Logger: logger}

	auditRecorder := audit.NewRecorder(pool, logger)

	storageRepo := storage.NewRepository(pool)
	storageCache := storage.NewCache(redisClient, cfg.CacheTTL, logger)
	storageService := storage.NewService(storageRepo, storageCache)
	storageHandler := storage.NewHandler(logger, storageService)

	queueClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, queueClient, logger)
	ordersHandler := orders.NewHandler(logger, ordersService, authMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Auth:           authMiddleware,
		AuditRecorder:  auditRecorder,
		StorageHandler: storageHandler,
		OrdersHandler:  ordersHandler,
		JobHandler:     jobHandler,
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
