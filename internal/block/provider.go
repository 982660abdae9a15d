// Package block caches the chain head and block timestamps so that per-event
// lookups do not each cost an RPC round trip.
package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/lru"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/logger"
)

const defaultTimestampCacheSize = 4096

// Fetcher reads block data from the chain; chain.Client satisfies it
type Fetcher interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockTimeAt(ctx context.Context, number uint64) (time.Time, error)
}

// Provider provides cached access to the head block number and block timestamps
//
//go:generate mockgen -source=provider.go -destination=../mocks/block.go -package=mocks -mock_names=Provider=MockBlockProvider
type Provider interface {
	// LatestBlock returns the head block number, potentially from cache
	LatestBlock(ctx context.Context) (uint64, error)

	// BlockTime returns the timestamp of a block, potentially from cache
	BlockTime(ctx context.Context, number uint64) (time.Time, error)
}

// Config holds configuration for the Provider
type Config struct {
	// TTL is how long to cache the head block number
	TTL time.Duration

	// StaleWindow is how long a cached head is still served when a refresh fails
	StaleWindow time.Duration

	// TimestampCacheSize bounds the number of cached block timestamps
	TimestampCacheSize int
}

type head struct {
	number    uint64
	fetchedAt time.Time
}

type provider struct {
	fetcher Fetcher
	config  Config
	clock   adapter.Clock

	mu   sync.RWMutex
	head *head

	// timestamps of mined blocks never change
	timestamps *lru.Cache[uint64, time.Time]
}

// NewProvider creates a new Provider with caching
func NewProvider(fetcher Fetcher, config Config, clock adapter.Clock) Provider {
	if config.TimestampCacheSize <= 0 {
		config.TimestampCacheSize = defaultTimestampCacheSize
	}
	return &provider{
		fetcher:    fetcher,
		config:     config,
		clock:      clock,
		timestamps: lru.NewCache[uint64, time.Time](config.TimestampCacheSize),
	}
}

func (p *provider) LatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.head
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.fetchedAt) < p.config.TTL {
		return cached.number, nil
	}

	number, err := p.fetcher.BlockNumber(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.fetchedAt) < p.config.StaleWindow {
			logger.DebugCtx(ctx, "Using stale block number", zap.Uint64("block_number", cached.number), zap.Error(err))
			return cached.number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	p.mu.Lock()
	p.head = &head{number: number, fetchedAt: now}
	p.mu.Unlock()

	return number, nil
}

func (p *provider) BlockTime(ctx context.Context, number uint64) (time.Time, error) {
	if ts, ok := p.timestamps.Get(number); ok {
		return ts, nil
	}

	ts, err := p.fetcher.BlockTimeAt(ctx, number)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch timestamp of block %d: %w", number, err)
	}

	p.timestamps.Add(number, ts)
	return ts, nil
}
