package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/cli"
	"tally/internal/event"
	apphttp "tally/internal/http"
	"tally/internal/ledger"
	"tally/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	gate := session.NewGate(store, []byte(cfg.SessionSecret), cfg.SessionTTL)

	// The event pipeline is optional; without a broker the ledger still
	// works, entries just stop feeding the digest worker.
	var publisher ledger.Publisher
	var eventClient *event.Client
	if cfg.AMQPURL != "" {
		var err error
		eventClient, err = event.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer eventClient.Close()
		publisher = eventClient
		logger.Info("Event pipeline enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := ledger.NewService(store, gate, publisher)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Load(loadCtx); err != nil {
		loadCancel()
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	loadCancel()

	srv := apphttp.NewServer(":"+cfg.Port, svc, gate)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tally server",
			"port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
