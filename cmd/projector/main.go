package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/instrument-shop/internal/api"
	"github.com/example/instrument-shop/internal/catalog"
	"github.com/example/instrument-shop/internal/config"
	"github.com/example/instrument-shop/internal/infrastructure/kafka"
	"github.com/example/instrument-shop/internal/infrastructure/store"
	"github.com/example/instrument-shop/internal/logger"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/example/instrument-shop/internal/projection"
	"github.com/example/instrument-shop/internal/query"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	if os.Getenv("KAFKA_GROUP_ID") == "" {
		cfg.KafkaGroupID = "projector"
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("projector stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	if !cfg.KafkaEnabled() {
		return errors.New("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.NewRegistry())
	readStore := store.NewReadStore()
	projector := projection.NewProjector(readStore, m, log)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, log)
	defer consumer.Close()

	// Only the popularity endpoint is served, so no sessions are needed.
	handlers := api.NewHandlers(nil, query.NewHandler(catalog.Default(), nil, readStore), log)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewProjectionRouter(handlers, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting projector",
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaGroupID),
		zap.String("addr", cfg.HTTPAddr))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consumer.Consume(ctx, projector.HandleEvent)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
