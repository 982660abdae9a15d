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
	"github.com/decibling/smart-contracts/internal/block"
	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/config"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/listener"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/messaging"
	"github.com/decibling/smart-contracts/internal/metrics"
	"github.com/decibling/smart-contracts/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadListenerConfig(*configFile, *envPath)
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
			"service":  "event-listener",
			"chain_id": string(cfg.Chain.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Decibling event listener")

	recorder := metrics.NewRecorder()
	clock := adapter.NewClock()

	// Subscriptions need a websocket endpoint when one is configured
	chainConfig, err := chain.NewConfig(cfg.Chain, true)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid chain configuration", zap.Error(err))
	}
	chainClient, err := chain.Dial(ctx, chainConfig, adapter.NewEthClientDialer(), nil, clock, recorder)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial chain", zap.Error(err), zap.String("rpc_url", chainConfig.RPCURL))
	}
	defer chainClient.Close()

	head, err := chainClient.BlockNumber(ctx)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read chain head", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to chain",
		zap.String("chain_id", chainConfig.ChainID.String()),
		zap.Uint64("head", head),
	)

	// Bind every configured contract
	deployment, err := contract.NewDeployment(adapter.NewFileSystem(), cfg.Contracts, chainClient)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load contract interfaces", zap.Error(err))
	}
	contracts, err := deployment.BindAll()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to bind contracts", zap.Error(err))
	}
	for _, c := range contracts {
		logger.InfoCtx(ctx, "Watching contract", zap.String("contract", c.Name()), logger.Address("address", c.Address()))
	}

	// Connect to database
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
	dataStore := store.NewPGStore(db)

	// Connect to NATS
	jsonAdapter := adapter.NewJSON()
	publisher, err := messaging.NewPublisher(ctx, messaging.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL), zap.String("stream", cfg.NATS.StreamName))

	blocks := block.NewProvider(chainClient, block.Config{
		TTL:         5 * time.Second,
		StaleWindow: time.Minute,
	}, clock)

	l := listener.New(listener.Config{
		ChainID:    chainConfig.ChainID.Uint64(),
		StartBlock: cfg.StartBlock,
	}, contracts, dataStore, publisher, blocks, jsonAdapter, clock, recorder)

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Run(ctx)
	}()

	// Wait for interrupt signal or a listener failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "listener"))
		}
		cancel()
	}

	logger.Info("Event listener stopped")
}
