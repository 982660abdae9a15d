// Package listener follows the logs of the deployed contracts, stores every decoded
// event and fans it out over NATS.
package listener

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/block"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/messaging"
	"github.com/decibling/smart-contracts/internal/metrics"
	"github.com/decibling/smart-contracts/internal/store"
	"github.com/decibling/smart-contracts/internal/store/schema"
)

// Config holds the listener configuration
type Config struct {
	ChainID uint64
	// StartBlock is used for contracts that have no stored cursor yet; zero follows the head
	StartBlock uint64
}

// Listener defines the interface for the contract event listener
type Listener interface {
	// Run watches every contract until ctx is cancelled or a watch fails
	Run(ctx context.Context) error
}

type listener struct {
	config    Config
	contracts []*contract.Contract
	store     store.Store
	publisher messaging.Publisher
	blocks    block.Provider
	json      adapter.JSON
	clock     adapter.Clock
	recorder  *metrics.Recorder
}

// New creates a listener for the given contracts
func New(
	config Config,
	contracts []*contract.Contract,
	st store.Store,
	publisher messaging.Publisher,
	blocks block.Provider,
	jsonAdapter adapter.JSON,
	clock adapter.Clock,
	recorder *metrics.Recorder,
) Listener {
	return &listener{
		config:    config,
		contracts: contracts,
		store:     st,
		publisher: publisher,
		blocks:    blocks,
		json:      jsonAdapter,
		clock:     clock,
		recorder:  recorder,
	}
}

func (l *listener) Run(ctx context.Context) error {
	if len(l.contracts) == 0 {
		return fmt.Errorf("%w: no contracts to watch", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(l.contracts))
	var wg sync.WaitGroup
	for _, c := range l.contracts {
		wg.Add(1)
		go func(c *contract.Contract) {
			defer wg.Done()
			if err := l.watch(ctx, c); err != nil {
				errCh <- fmt.Errorf("watch %s: %w", c.Name(), err)
				cancel()
			}
		}(c)
	}

	wg.Wait()
	close(errCh)

	return <-errCh
}

func (l *listener) watch(ctx context.Context, c *contract.Contract) error {
	cursor := store.CursorName(l.config.ChainID, c.Name())

	from, err := l.store.GetBlockCursor(ctx, cursor)
	if err != nil {
		return err
	}
	// the cursor block is replayed; logs already stored are skipped
	if from == 0 {
		from = l.config.StartBlock
	}

	opts := contract.WatchOptions{}
	if from > 0 {
		opts.FromBlock = new(big.Int).SetUint64(from)
	}

	stream, err := c.Watch(ctx, opts)
	if err != nil {
		return err
	}
	defer stream.Close()

	logger.InfoCtx(ctx, "Watching contract events",
		zap.String("contract", c.Name()),
		logger.Address("address", c.Address()),
		zap.Uint64("from_block", from),
	)

	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, domain.ErrSubscriptionClosed) {
				return fmt.Errorf("stream ended: %w", err)
			}
			return err
		}

		if err := l.handle(ctx, cursor, ev); err != nil {
			return err
		}
	}
}

// handle stores the event, publishes it when it is new and advances the cursor.
// Publishing is best effort; the contract_events table is the record.
func (l *listener) handle(ctx context.Context, cursor string, ev *contract.Event) error {
	args, err := l.json.Marshal(messaging.NormalizeArgs(ev.Args))
	if err != nil {
		return fmt.Errorf("failed to marshal event args: %w", err)
	}

	blockTime := l.blockTime(ctx, ev.BlockNumber)

	id := ulid.MustNewDefault(l.clock.Now()).String()
	saved, err := l.store.SaveEvent(ctx, &schema.ContractEvent{
		ID:          id,
		ChainID:     l.config.ChainID,
		Contract:    ev.Contract,
		Address:     strings.ToLower(ev.Address.Hex()),
		Event:       ev.Name,
		BlockNumber: ev.BlockNumber,
		BlockTime:   blockTime,
		TxHash:      ev.TxHash.Hex(),
		LogIndex:    ev.LogIndex,
		Args:        datatypes.JSON(args),
	})
	if err != nil {
		return err
	}

	if saved {
		l.recorder.Event(ev.Contract, ev.Name)
		logger.DebugCtx(ctx, "Stored contract event",
			zap.String("contract", ev.Contract),
			zap.String("event", ev.Name),
			zap.Uint64("block_number", ev.BlockNumber),
			zap.Uint64("lag", l.lag(ctx, ev.BlockNumber)),
		)

		msg := messaging.NewEventMessage(id, l.config.ChainID, ev)
		msg.BlockTime = blockTime
		if err := l.publisher.PublishEvent(ctx, msg); err != nil {
			logger.ErrorCtx(ctx, err,
				zap.String("contract", ev.Contract),
				zap.String("event", ev.Name),
				logger.TxHash(ev.TxHash),
			)
		}
	} else {
		logger.DebugCtx(ctx, "Skipping stored event",
			zap.String("contract", ev.Contract),
			zap.String("event", ev.Name),
			logger.TxHash(ev.TxHash),
			zap.Uint("log_index", ev.LogIndex),
		)
	}

	return l.store.SetBlockCursor(ctx, cursor, ev.BlockNumber)
}

// blockTime is nil when the header cannot be read; the event is stored without it
func (l *listener) blockTime(ctx context.Context, number uint64) *time.Time {
	ts, err := l.blocks.BlockTime(ctx, number)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read block time", zap.Uint64("block_number", number), zap.Error(err))
		return nil
	}
	ts = ts.UTC()
	return &ts
}

// lag is the distance to the cached chain head, zero when unknown
func (l *listener) lag(ctx context.Context, number uint64) uint64 {
	head, err := l.blocks.LatestBlock(ctx)
	if err != nil || head < number {
		return 0
	}
	return head - number
}
