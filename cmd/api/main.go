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

	"github.com/example/instrument-shop/internal/activity"
	"github.com/example/instrument-shop/internal/api"
	"github.com/example/instrument-shop/internal/auth"
	"github.com/example/instrument-shop/internal/catalog"
	"github.com/example/instrument-shop/internal/command"
	"github.com/example/instrument-shop/internal/config"
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/infrastructure/kafka"
	"github.com/example/instrument-shop/internal/infrastructure/store"
	"github.com/example/instrument-shop/internal/logger"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/example/instrument-shop/internal/projection"
	"github.com/example/instrument-shop/internal/query"
	"github.com/example/instrument-shop/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	products, closeCatalog, err := openCatalog(cfg, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	readStore := store.NewReadStore()
	projector := projection.NewProjector(readStore, m, log)

	// Without Kafka the projection is fed in process.
	publisher := projector.Publisher()
	var consumer *kafka.Consumer
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer

		consumer = kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, log)
		defer consumer.Close()
	}

	recorder := activity.NewRecorder(publisher, activity.DefaultQueueSize, m, log)
	sessions := session.NewRegistry(cfg.SessionTTL, log,
		session.WithCartFactory(func(id string) *cart.Store {
			c := cart.NewStore()
			c.OnChange(recorder.Listener(id))
			return c
		}))
	m.RegisterSessionGauge(reg, sessions.Len)

	handlers := api.NewHandlers(
		command.NewHandler(products, sessions, recorder, m, log),
		query.NewHandler(products, sessions, readStore),
		log,
	)
	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.RouterConfig{
			Handlers:      handlers,
			Tokens:        auth.NewTokenService(cfg.SessionSecret, cfg.SessionTokenTTL),
			Sessions:      sessions,
			Metrics:       m,
			Logger:        log,
			SecureCookies: cfg.SecureCookies,
			WebDir:        cfg.WebDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting instrument shop",
		zap.String("addr", cfg.HTTPAddr),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("kafka_topic", cfg.KafkaTopic),
		zap.Duration("session_ttl", cfg.SessionTTL))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sessions.Run(ctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		return recorder.Run(ctx)
	})
	if consumer != nil {
		g.Go(func() error {
			err := consumer.Consume(ctx, projector.HandleEvent)
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

// openCatalog picks PostgreSQL, then a seed file, then the built-in catalog.
func openCatalog(cfg config.Config, log *zap.Logger) (catalog.Provider, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := catalog.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Info("catalog: postgres")
		return catalog.NewPostgres(db), func() { db.Close() }, nil
	case cfg.CatalogFile != "":
		static, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info("catalog: file", zap.String("path", cfg.CatalogFile))
		return static, func() {}, nil
	default:
		log.Info("catalog: built-in")
		return catalog.Default(), func() {}, nil
	}
}
