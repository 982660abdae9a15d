package faucet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/metrics"
)

const (
	KindNative = "native"
	KindToken  = "token"

	statusSuccess = "success"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// ErrPoolSaturated is returned when the dispatch queue is full
var ErrPoolSaturated = errors.New("faucet dispatch queue is full")

// Dispatcher hands grants to the background transfer workers
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/faucet_dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher,NativeSender=MockNativeSender,TokenSender=MockTokenSender
type Dispatcher interface {
	// Dispatch queues the native and token transfers to address and returns without waiting for them
	Dispatch(address common.Address) error
	// Stop waits for queued transfers to finish
	Stop()
}

// NativeSender sends the gas top-up; chain.Client satisfies it
type NativeSender interface {
	Transact(ctx context.Context, req chain.TxRequest) (*types.Receipt, error)
}

// TokenSender sends the ERC20 grant
type TokenSender interface {
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error)
}

// DispatcherConfig holds the grant amounts and worker pool sizing
type DispatcherConfig struct {
	NativeAmount    *big.Int
	TokenAmount     *big.Int
	WorkerPoolSize  int
	WorkerQueueSize int
	// TransferTimeout bounds each transfer including its receipt wait
	TransferTimeout time.Duration
}

type poolDispatcher struct {
	ctx      context.Context
	config   DispatcherConfig
	native   NativeSender
	token    TokenSender
	pool     pond.Pool
	recorder *metrics.Recorder
}

// NewDispatcher starts the worker pool. Transfers run under ctx, not the request context,
// so they survive the HTTP request that triggered them.
func NewDispatcher(ctx context.Context, config DispatcherConfig, native NativeSender, token TokenSender, recorder *metrics.Recorder) Dispatcher {
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 4
	}
	if config.TransferTimeout <= 0 {
		config.TransferTimeout = 2 * time.Minute
	}

	return &poolDispatcher{
		ctx:    ctx,
		config: config,
		native: native,
		token:  token,
		pool: pond.NewPool(
			config.WorkerPoolSize,
			pond.WithQueueSize(config.WorkerQueueSize),
			pond.WithContext(ctx),
		),
		recorder: recorder,
	}
}

func (d *poolDispatcher) Dispatch(address common.Address) error {
	_, ok := d.pool.TrySubmit(func() {
		d.grant(address)
	})
	if !ok {
		return ErrPoolSaturated
	}
	return nil
}

func (d *poolDispatcher) Stop() {
	d.pool.StopAndWait()
}

// grant sends both transfers; a failure of one does not stop or undo the other
func (d *poolDispatcher) grant(address common.Address) {
	d.send(KindNative, address, d.config.NativeAmount, func(ctx context.Context) (*types.Receipt, error) {
		return d.native.Transact(ctx, chain.TxRequest{To: address, Value: d.config.NativeAmount})
	})
	d.send(KindToken, address, d.config.TokenAmount, func(ctx context.Context) (*types.Receipt, error) {
		return d.token.Transfer(ctx, address, d.config.TokenAmount)
	})
}

func (d *poolDispatcher) send(kind string, address common.Address, amount *big.Int, fn func(ctx context.Context) (*types.Receipt, error)) {
	if amount == nil || amount.Sign() <= 0 {
		d.recorder.FaucetDispatch(kind, statusSkipped)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.config.TransferTimeout)
	defer cancel()

	receipt, err := fn(ctx)
	if err != nil {
		d.recorder.FaucetDispatch(kind, statusFailed)
		logger.ErrorCtx(ctx, fmt.Errorf("faucet %s transfer failed: %w", kind, err),
			logger.Address("to", address),
			logger.BigInt("amount", amount),
		)
		return
	}

	d.recorder.FaucetDispatch(kind, statusSuccess)
	logger.InfoCtx(ctx, "Faucet transfer confirmed",
		zap.String("kind", kind),
		logger.Address("to", address),
		logger.BigInt("amount", amount),
		logger.TxHash(receipt.TxHash),
	)
}
