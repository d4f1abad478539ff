package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/auth"
	"example.com/octofit/internal/config"
	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/logging"
	"example.com/octofit/internal/persistence/postgres"
	"example.com/octofit/internal/seed"
)

func main() {
	printTokens := flag.Bool("tokens", false, "print a bearer token for each demo user")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of printed tokens")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := logging.New("octofit-seed", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		logger.WithError(err).Fatal("migrations failed")
	}

	repo := postgres.NewRepository(pool)
	summary, err := seed.Populate(ctx, domain.NewDirectory(repo, logger), domain.NewLedger(repo, logger), logger)
	if err != nil {
		logger.WithError(err).Fatal("seeding failed")
	}
	if summary.Skipped {
		logger.Info("database already holds reference data")
	}

	if !*printTokens {
		return
	}
	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	for _, user := range seed.Heroes() {
		token, err := auth.Issue(auth.Claims{
			Subject:   user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Scopes:    scopeSet(auth.AllScopes()),
		}, authCfg, *tokenTTL)
		if err != nil {
			logger.WithError(err).Fatal("issue token")
		}
		fmt.Printf("%s\t%s\n", user.Username, token)
	}
}

func scopeSet(scopes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}
