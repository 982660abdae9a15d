package contract

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
)

const (
	defaultMaxBackoff = 30 * time.Second
	defaultLogBuffer  = 128
)

// WatchOptions configures a log subscription
type WatchOptions struct {
	// Events restricts the subscription to the named events; empty means all
	Events []string

	// FromBlock replays logs starting at this block before following the head
	FromBlock *big.Int

	// MaxBackoff caps the delay between resubscription attempts
	MaxBackoff time.Duration

	// Buffer is the capacity of the raw log channel
	Buffer int
}

type logPosition struct {
	block uint64
	index uint
}

func (p logPosition) after(o logPosition) bool {
	if p.block != o.block {
		return p.block > o.block
	}
	return p.index > o.index
}

// Stream is a lazy, restartable sequence of decoded events.
// The subscription is opened on the first call to Next or C.
type Stream struct {
	contract *Contract
	query    ethereum.FilterQuery
	opts     WatchOptions

	ctx    context.Context
	cancel context.CancelFunc
	events chan *Event
	done   chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	mu        sync.Mutex
	fromBlock *big.Int
	last      *logPosition
}

// Watch prepares a subscription to the contract's logs
func (c *Contract) Watch(ctx context.Context, opts WatchOptions) (*Stream, error) {
	query, err := c.filterQuery(opts.Events)
	if err != nil {
		return nil, err
	}

	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultLogBuffer
	}

	var fromBlock *big.Int
	if opts.FromBlock != nil {
		fromBlock = new(big.Int).Set(opts.FromBlock)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	return &Stream{
		contract:  c,
		query:     query,
		opts:      opts,
		ctx:       streamCtx,
		cancel:    cancel,
		events:    make(chan *Event),
		done:      make(chan struct{}),
		fromBlock: fromBlock,
	}, nil
}

// Next blocks until the next event arrives.
// It returns domain.ErrSubscriptionClosed once the stream is closed.
func (s *Stream) Next(ctx context.Context) (*Event, error) {
	s.start()

	select {
	case ev, ok := <-s.events:
		if !ok {
			return nil, domain.ErrSubscriptionClosed
		}
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// C returns the event channel; it is closed when the stream ends
func (s *Stream) C() <-chan *Event {
	s.start()
	return s.events
}

// Close cancels the subscription and waits for the pump to exit.
// No event is delivered after Close returns.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.startOnce.Do(func() {
			close(s.events)
			close(s.done)
		})
		<-s.done
	})
}

func (s *Stream) start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

func (s *Stream) run() {
	defer close(s.done)
	defer close(s.events)

	logs := make(chan types.Log, s.opts.Buffer)
	sub := event.ResubscribeErr(s.opts.MaxBackoff, func(ctx context.Context, lastErr error) (event.Subscription, error) {
		if lastErr != nil {
			logger.WarnCtx(s.ctx, "Log subscription dropped, resubscribing",
				zap.String("contract", s.contract.name),
				zap.Error(lastErr))
		}

		query := s.query
		query.FromBlock = s.resumeBlock()

		sub, err := s.contract.backend.SubscribeLogs(ctx, query, logs)
		if err != nil {
			logger.WarnCtx(s.ctx, "Failed to subscribe to contract logs",
				zap.String("contract", s.contract.name),
				zap.Error(err))
			return nil, err
		}
		return sub, nil
	})
	defer func() {
		sub.Unsubscribe()
		logger.DebugCtx(s.ctx, "Unsubscribed from contract logs", zap.String("contract", s.contract.name))
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-sub.Err():
			return
		case log := <-logs:
			if log.Removed || !s.advance(log) {
				continue
			}

			ev, err := s.contract.ParseLog(log)
			if err != nil {
				logger.WarnCtx(s.ctx, "Skipping undecodable log",
					zap.String("contract", s.contract.name),
					logger.TxHash(log.TxHash),
					zap.Error(err))
				continue
			}

			select {
			case s.events <- ev:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

// advance records log as the newest delivered position; replays at or before it are rejected
func (s *Stream) advance(log types.Log) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := logPosition{block: log.BlockNumber, index: log.Index}
	if s.last != nil && !pos.after(*s.last) {
		return false
	}
	s.last = &pos
	return true
}

// resumeBlock restarts at the block of the last delivered log so that later logs in it are not lost
func (s *Stream) resumeBlock() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil {
		return new(big.Int).SetUint64(s.last.block)
	}
	if s.fromBlock != nil {
		return new(big.Int).Set(s.fromBlock)
	}
	return nil
}
