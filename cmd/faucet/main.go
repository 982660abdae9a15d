package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/api/server"
	"github.com/decibling/smart-contracts/internal/auction"
	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/config"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/faucet"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/metrics"
	"github.com/decibling/smart-contracts/internal/ratelimit"
	"github.com/decibling/smart-contracts/internal/store"
	"github.com/decibling/smart-contracts/internal/wallet"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadFaucetConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "faucet",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Decibling faucet")

	if err := cfg.Chain.Validate(true); err != nil {
		logger.FatalCtx(ctx, "Invalid chain configuration", zap.Error(err))
	}

	recorder := metrics.NewRecorder()
	clock := adapter.NewClock()

	// Connect to the chain with the faucet signer
	signer, err := wallet.FromConfig(cfg.Chain)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load signer", zap.Error(err))
	}
	chainConfig, err := chain.NewConfig(cfg.Chain, false)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid chain configuration", zap.Error(err))
	}
	chainClient, err := chain.Dial(ctx, chainConfig, adapter.NewEthClientDialer(), signer, clock, recorder)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial chain", zap.Error(err), zap.String("rpc_url", chainConfig.RPCURL))
	}
	defer chainClient.Close()

	account, err := chainClient.Connect(ctx)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to chain", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to chain",
		logger.Address("account", account.Address),
		logger.BigInt("balance", account.Balance),
		zap.String("chain_id", chainConfig.ChainID.String()),
	)

	// Grant amounts
	nativeAmount, err := cfg.Grant.NativeAmount()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid grant configuration", zap.Error(err))
	}
	tokenAmount, err := cfg.Grant.TokenAmount()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid grant configuration", zap.Error(err))
	}

	deployment, err := contract.NewDeployment(adapter.NewFileSystem(), cfg.Contracts, chainClient)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load contract interfaces", zap.Error(err))
	}
	erc20, err := deployment.Bind(contract.ERC20)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to bind token contract", zap.Error(err))
	}
	token := auction.NewContractToken(erc20)

	// Cooldown store and throughput cap
	grantStore, limiter, closeStore := newGrantStore(ctx, cfg)
	defer closeStore()

	dispatcher := faucet.NewDispatcher(ctx, faucet.DispatcherConfig{
		NativeAmount:    nativeAmount,
		TokenAmount:     tokenAmount,
		WorkerPoolSize:  cfg.Worker.WorkerPoolSize,
		WorkerQueueSize: cfg.Worker.WorkerQueueSize,
	}, chainClient, token, recorder)

	faucetService := faucet.NewService(faucet.Config{
		WaitTime: cfg.Grant.WaitTime,
	}, grantStore, dispatcher, limiter, clock, recorder)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	srv := server.New(serverConfig, faucetService, recorder)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
	}

	// Create shutdown context with timeout (don't use the root ctx, transfers still run under it)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, fmt.Errorf("server forced to shutdown: %w", err))
	}

	// Let queued transfers finish before the chain client closes
	dispatcher.Stop()
	cancel()

	logger.Info("Faucet stopped")
}

// newGrantStore builds the cooldown store selected by grant.store, and the
// throughput limiter that goes with it
func newGrantStore(ctx context.Context, cfg *config.FaucetConfig) (faucet.GrantStore, ratelimit.Limiter, func()) {
	limiterConfig := ratelimit.Config{
		RequestsPerSecond: cfg.Grant.RequestsPerSecond,
		Burst:             cfg.Grant.Burst,
		Key:               cfg.Redis.KeyPrefix + "limiter",
	}

	switch cfg.Grant.Store {
	case "", "memory":
		logger.WarnCtx(ctx, "Using in-memory grant store, cooldowns reset on restart")
		memory := faucet.NewMemoryStore()
		return memory, ratelimit.NewLocal(limiterConfig), func() {
			logger.Warn("Dropping in-memory cooldowns", zap.Int("addresses", memory.Len()))
		}

	case "redis":
		client := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(ctx); err != nil {
			logger.FatalCtx(ctx, "Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
		}
		logger.InfoCtx(ctx, "Connected to redis", zap.String("addr", cfg.Redis.Addr))
		limiter := ratelimit.NewDistributed(limiterConfig, client.NewRateLimiter())
		return faucet.NewRedisStore(client, cfg.Redis.KeyPrefix), limiter, func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}

	case "postgres":
		db, err := store.Open(cfg.Database)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
		}
		if err := store.AutoMigrate(db); err != nil {
			logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to database",
			zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
			zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		)
		return faucet.NewDBStore(store.NewPGStore(db)), ratelimit.NewLocal(limiterConfig), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}

	default:
		logger.FatalCtx(ctx, "Unknown grant store", zap.String("store", cfg.Grant.Store))
		return nil, nil, nil
	}
}
