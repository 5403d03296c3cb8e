package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/mutevazi/depo-api/internal/app"
	"github.com/mutevazi/depo-api/internal/orders"
	"github.com/mutevazi/depo-api/internal/platform/db"
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

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, nil, logger)

	sender := jobs.NewWebhookSender(jobs.WebhookConfig{
		URL:         cfg.SupplierWebhookURL,
		Secret:      cfg.SupplierWebhookSecret,
		VendorToken: cfg.SupplierVendorToken,
		Timeout:     cfg.SupplierTimeout,
	})
	notifier := jobs.NewSupplierNotifier(ordersService, sender, logger, cfg.SupplierTimeout)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Notifier:  notifier,
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
