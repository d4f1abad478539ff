package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/api"
	"example.com/octofit/internal/auth"
	"example.com/octofit/internal/config"
	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/logging"
	"example.com/octofit/internal/outbox"
	"example.com/octofit/internal/persistence/memory"
	"example.com/octofit/internal/persistence/postgres"
	"example.com/octofit/internal/seed"
	httptransport "example.com/octofit/internal/transport/http"
)

type store interface {
	domain.LedgerStore
	domain.StandingsStore
	domain.DirectoryStore
	domain.SuggestionStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := logging.New("octofit-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo store
		wg   sync.WaitGroup
	)

	switch cfg.StorageBackend {
	case config.StorageMemory:
		repo = memory.NewRepository()
		logger.Warn("using in-memory storage; data is lost on restart")
	default:
		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				logger.WithError(err).Fatal("migrations failed")
			}
		}
		repo = postgres.NewRepository(pool)

		if cfg.OutboxEnabled {
			producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
			defer producer.Close()

			registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
			dispatcher := outbox.NewDispatcher(pool, producer, registry, logger, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
			go dispatcher.Start(ctx)
			defer dispatcher.Wait()
		}
	}

	ledger := domain.NewLedger(repo, logger.WithField("component", "ledger"))
	ranker := domain.NewRanker(repo, logger.WithField("component", "ranker"),
		domain.WithDefaultLimits(cfg.UserLeaderboardLimit, cfg.TeamLeaderboardLimit))
	directory := domain.NewDirectory(repo, logger.WithField("component", "directory"))
	coach := domain.NewCoach(repo, logger.WithField("component", "coach"))

	if cfg.StorageBackend == config.StorageMemory {
		if _, err := seed.Populate(ctx, directory, ledger, logger); err != nil {
			logger.WithError(err).Fatal("seeding in-memory store failed")
		}
	}

	router := mux.NewRouter()
	api.NewHandler(ledger, ranker, directory, coach, logger).RegisterRoutes(router)

	if cfg.MetricsAddress == "" {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := httptransport.Run(ctx, httptransport.ServerConfig{Address: cfg.MetricsAddress}, promhttp.Handler(), logger.WithField("server", "metrics"))
			if err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           3600,
	})
	authMiddleware := auth.NewMiddleware(
		auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
		auth.SkipPaths("/healthz", "/metrics"),
	)
	handler := logging.Middleware(logger)(corsHandler.Handler(authMiddleware.Wrap(router)))

	if err := httptransport.Run(ctx, httptransport.ServerConfig{Address: cfg.HTTPAddress}, handler, logger.WithField("server", "api")); err != nil {
		logger.WithError(err).Error("api server stopped")
		stop()
	}
	wg.Wait()
	logger.Info("octofit-api stopped")
}
