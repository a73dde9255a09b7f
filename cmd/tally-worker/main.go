package main

import (
	"context"
	"errors"
	"os"
	"time"

	"tally/internal/cli"
	"tally/internal/event"
	"tally/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("Worker requires a broker (set AMQP_URL)")
		os.Exit(1)
	}

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	client, err := event.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	digest := worker.NewDigestWorker(store)

	// Cancellation stops the consume loop; the deferred Close calls run
	// once it returns.
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Starting tally worker",
		"queue", cfg.AMQPQueue, "backend", cfg.DataBackend)

	err = client.ConsumeEntryCreated(ctx, func(msg *event.EntryCreatedMessage) error {
		return digest.HandleEntryCreated(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("Worker stopped gracefully")
}
