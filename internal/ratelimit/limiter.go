// Package ratelimit caps how many faucet grants go out per second, across every
// faucet replica when they share a redis.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/logger"
)

// Limiter decides whether one more grant fits the throughput cap. It never blocks.
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	Allow(ctx context.Context, now time.Time) bool
}

// Config holds the throughput cap
type Config struct {
	// RequestsPerSecond is the cap; zero or less disables it
	RequestsPerSecond float64
	Burst             int
	// Key is the redis key shared by all replicas
	Key string
	// LocalFallbackMultiplier scales the per-replica limit used while redis is unreachable
	LocalFallbackMultiplier float64
	// RetryInterval is how long redis is bypassed after a failed call
	RetryInterval time.Duration
}

func (c *Config) setDefaults() {
	if c.Burst <= 0 {
		c.Burst = max(int(math.Ceil(c.RequestsPerSecond)), 1)
	}
	if c.Key == "" {
		c.Key = "decibling:faucet:limiter"
	}
	if c.LocalFallbackMultiplier <= 0 {
		c.LocalFallbackMultiplier = 0.5
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 10 * time.Second
	}
}

// NewLocal returns a limiter private to this process
func NewLocal(cfg Config) Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return &localLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	cfg.setDefaults()
	return &localLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
}

type localLimiter struct {
	limiter *rate.Limiter
}

func (l *localLimiter) Allow(_ context.Context, now time.Time) bool {
	return l.limiter.AllowN(now, 1)
}

// NewDistributed returns a limiter whose budget is shared through redis.
// While redis fails it falls back to a reduced local limit and retries redis
// after RetryInterval.
func NewDistributed(cfg Config, rl adapter.RedisRateLimiter) Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return NewLocal(cfg)
	}
	cfg.setDefaults()

	localRate := max(cfg.RequestsPerSecond*cfg.LocalFallbackMultiplier, 1.0)
	return &distributedLimiter{
		config:    cfg,
		redis:     rl,
		limit:     redisLimit(cfg.RequestsPerSecond, cfg.Burst),
		preFilter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		fallback:  rate.NewLimiter(rate.Limit(localRate), cfg.Burst),
	}
}

type distributedLimiter struct {
	config    Config
	redis     adapter.RedisRateLimiter
	limit     redis_rate.Limit
	preFilter *rate.Limiter
	fallback  *rate.Limiter

	mu        sync.Mutex
	downUntil time.Time
	down      bool
}

func (l *distributedLimiter) Allow(ctx context.Context, now time.Time) bool {
	// a replica never exceeds the global rate on its own, so this spares redis a round trip
	if !l.preFilter.AllowN(now, 1) {
		return false
	}

	if l.bypassRedis(now) {
		return l.fallback.AllowN(now, 1)
	}

	res, err := l.redis.Allow(ctx, l.config.Key, l.limit)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		l.markDown(now)
		logger.WarnCtx(ctx, "Redis rate limiter error, falling back to local",
			zap.String("key", l.config.Key),
			zap.Duration("retry_in", l.config.RetryInterval),
			zap.Error(err),
		)
		return l.fallback.AllowN(now, 1)
	}
	l.markUp()

	if res.Allowed == 0 {
		logger.DebugCtx(ctx, "Faucet throughput exhausted",
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining),
		)
		return false
	}
	return true
}

func (l *distributedLimiter) bypassRedis(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.down && now.Before(l.downUntil)
}

func (l *distributedLimiter) markDown(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.down = true
	l.downUntil = now.Add(l.config.RetryInterval)
}

func (l *distributedLimiter) markUp() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.down {
		l.down = false
		logger.Info("Redis rate limiter restored", zap.String("key", l.config.Key))
	}
}

// redisLimit expresses a possibly fractional per-second rate as a GCRA limit
func redisLimit(perSecond float64, burst int) redis_rate.Limit {
	if perSecond >= 1 {
		return redis_rate.Limit{
			Rate:   int(math.Round(perSecond)),
			Burst:  burst,
			Period: time.Second,
		}
	}
	return redis_rate.Limit{
		Rate:   1,
		Burst:  burst,
		Period: time.Duration(float64(time.Second) / perSecond),
	}
}
