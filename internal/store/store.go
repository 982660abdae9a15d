package store

import (
	"context"
	"time"

	"github.com/decibling/smart-contracts/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// ReserveGrant records now as the last grant of address unless the previous grant is
	// less than wait old. It reports whether the reservation was taken.
	ReserveGrant(ctx context.Context, address string, now time.Time, wait time.Duration) (bool, error)
	// GetGrant retrieves the grant record of an address, nil when it never received one
	GetGrant(ctx context.Context, address string) (*schema.FaucetGrant, error)
	// SaveEvent stores a decoded contract event; it reports false when the log was already stored
	SaveEvent(ctx context.Context, event *schema.ContractEvent) (bool, error)
	// GetBlockCursor retrieves the last processed block number for a cursor
	GetBlockCursor(ctx context.Context, name string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a cursor
	SetBlockCursor(ctx context.Context, name string, blockNumber uint64) error
}
