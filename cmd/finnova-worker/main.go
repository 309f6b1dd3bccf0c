package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finnova/internal/amqp"
	"finnova/internal/backend"
	"finnova/internal/config"
	"finnova/internal/ledger"
	"finnova/internal/log"
	"finnova/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	if !backend.Shared(cfg.DataBackend) {
		logger.Warn("Data backend is process-local, summaries will not reflect the server's ledger; use sqlite or postgres to share state",
			log.FieldBackend, cfg.DataBackend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer docs.Close()

	// The worker reads the ledger, it never publishes events of its own.
	store := ledger.NewStore(docs, nil)
	if _, err := store.InitializeOrLoad(ctx); err != nil {
		logger.Error("Failed to initialize ledger", log.FieldError, err)
		os.Exit(1)
	}

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer events.Close()

	notifier := worker.NewNotifier(store)

	logger.Info("Starting finnova-worker",
		"queue", cfg.AMQPQueue,
		"summary_interval", cfg.SummaryInterval.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := events.Consume(gctx, notifier.HandleTransactionCreated)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SummaryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := notifier.LogLedgerSummary(gctx); err != nil {
					logger.Error("Ledger summary failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
