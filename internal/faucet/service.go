// Package faucet hands out a fixed native and token grant per address, at most once
// per cooldown window.
package faucet

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/metrics"
	"github.com/decibling/smart-contracts/internal/ratelimit"
)

// Result is the outcome reported to the requester
type Result string

const (
	ResultDone   Result = "done"
	ResultWait   Result = "wait"
	ResultFailed Result = "failed"
)

// Service is the faucet entry point
//
//go:generate mockgen -source=service.go -destination=../mocks/faucet.go -package=mocks -mock_names=Service=MockFaucet
type Service interface {
	// Request grants to address unless it is inside its cooldown window.
	// The transfers are dispatched in the background; Request does not wait for them.
	Request(ctx context.Context, address string) (Result, error)
}

// Config holds the grant policy
type Config struct {
	WaitTime time.Duration
}

type service struct {
	config     Config
	store      GrantStore
	dispatcher Dispatcher
	limiter    ratelimit.Limiter
	clock      adapter.Clock
	recorder   *metrics.Recorder
}

// NewService builds the faucet. limiter caps grants across all addresses; nil disables the cap.
func NewService(config Config, store GrantStore, dispatcher Dispatcher, limiter ratelimit.Limiter, clock adapter.Clock, recorder *metrics.Recorder) Service {
	if limiter == nil {
		limiter = ratelimit.NewLocal(ratelimit.Config{})
	}

	return &service{
		config:     config,
		store:      store,
		dispatcher: dispatcher,
		limiter:    limiter,
		clock:      clock,
		recorder:   recorder,
	}
}

func (s *service) Request(ctx context.Context, address string) (Result, error) {
	result, err := s.request(ctx, address)
	s.recorder.FaucetRequest(string(result))

	switch result {
	case ResultDone:
		logger.InfoCtx(ctx, "Faucet grant dispatched", zap.String("address", address))
	case ResultWait:
		logger.DebugCtx(ctx, "Faucet grant deferred", zap.String("address", address), zap.Error(err))
	default:
		logger.WarnCtx(ctx, "Faucet grant failed", zap.String("address", address), zap.Error(err))
	}

	return result, err
}

func (s *service) request(ctx context.Context, address string) (Result, error) {
	if !common.IsHexAddress(address) {
		return ResultFailed, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	account := common.HexToAddress(address)
	if account == (common.Address{}) {
		return ResultFailed, fmt.Errorf("%w: zero address", domain.ErrInvalidAddress)
	}

	now := s.clock.Now()

	// the global cap is checked first so a throttled request does not start a cooldown
	if !s.limiter.Allow(ctx, now) {
		return ResultWait, fmt.Errorf("%w: faucet throughput exceeded", domain.ErrRateLimited)
	}

	ok, err := s.store.Reserve(ctx, account, now, s.config.WaitTime)
	if err != nil {
		return ResultFailed, err
	}
	if !ok {
		return ResultWait, fmt.Errorf("%w: %s is inside its %s cooldown", domain.ErrRateLimited, Key(account), s.config.WaitTime)
	}

	if err := s.dispatcher.Dispatch(account); err != nil {
		return ResultFailed, err
	}

	return ResultDone, nil
}
