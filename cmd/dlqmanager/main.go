package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/config"
	"example.com/octofit/internal/logging"
	"example.com/octofit/internal/outbox"
	"example.com/octofit/internal/persistence/postgres"
	httptransport "example.com/octofit/internal/transport/http"
)

const defaultDLQBatchSize = 50

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := logging.New("octofit-dlq-manager", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	manager := outbox.NewDLQManager(pool, logger, cfg.DLQMaxRetries, cfg.DLQBaseDelay)

	var wg sync.WaitGroup
	if cfg.MetricsAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httptransport.Run(ctx, httptransport.ServerConfig{Address: cfg.MetricsAddress}, promhttp.Handler(), logger); err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	logger.WithFields(logrus.Fields{
		"interval":    cfg.DLQPollInterval.String(),
		"max_retries": cfg.DLQMaxRetries,
	}).Info("dlq manager started")

	manager.Run(ctx, cfg.DLQPollInterval, defaultDLQBatchSize)

	logger.Info("dlq manager stopped")
	wg.Wait()
}
