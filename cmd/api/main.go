package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/xhilo/pi-gateway/internal/chain"
	"github.com/xhilo/pi-gateway/internal/config"
	"github.com/xhilo/pi-gateway/internal/infra"
	"github.com/xhilo/pi-gateway/internal/logging"
	"github.com/xhilo/pi-gateway/internal/platform"
	"github.com/xhilo/pi-gateway/internal/routes"
	"github.com/xhilo/pi-gateway/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else {
		logger.Warn("DATABASE_URL not set, journals are in-memory")
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	} else {
		logger.Warn("REDIS_URL not set, idempotency and token cache disabled")
	}

	piClient := platform.NewClient(cfg.PiAPIBaseURL, cfg.PiAPIKey)

	var submitter chain.Submitter
	if cfg.WalletSeed != "" {
		horizonSubmitter, err := chain.NewHorizonSubmitter(chain.NewClient(cfg.HorizonURL), cfg.WalletSeed, cfg.NetworkPassphrase)
		if err != nil {
			logger.Error("parse wallet seed", "error", err)
			os.Exit(1)
		}
		logger.Info("payout wallet loaded", "address", horizonSubmitter.Address())
		submitter = horizonSubmitter
	} else {
		logger.Warn("PI_WALLET_SEED not set, payouts use the static connector")
	}

	srv, err := server.New(cfg, routes.Deps{DB: db, Cache: cache, Platform: piClient, Submitter: submitter}, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
