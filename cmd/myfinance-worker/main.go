package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"myfinance/internal/amqp"
	"myfinance/internal/config"
	"myfinance/internal/log"
	"myfinance/internal/sheets"
	gsheet "myfinance/internal/sheets/google"
	"myfinance/internal/sheets/memory"
	"myfinance/internal/storage"
	"myfinance/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: log.DefaultConfig().Level, Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting myfinance-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a spreadsheet the worker still drains the queue into an
	// in-memory sink, useful for local development.
	var writer sheets.TransactionWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.New()
		logger.Info("Google Sheets disabled - exporting to in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, writer, cfg.SyncBatchSize)

	// Drain any backlog accumulated while the worker was down.
	logger.Info("Performing startup sync check...")
	if err := exportWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeTransactionSync(gctx, func(msg *amqp.TransactionSyncMessage) error {
			return exportWorker.HandleSyncMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		return exportWorker.RunPeriodic(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
