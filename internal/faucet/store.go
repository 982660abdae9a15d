package faucet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/store"
)

// GrantStore enforces the per-address cooldown between grants
//
//go:generate mockgen -source=store.go -destination=../mocks/faucet_store.go -package=mocks -mock_names=GrantStore=MockGrantStore
type GrantStore interface {
	// Reserve records now as the last grant of address and returns true, or returns false
	// without recording anything when the previous grant is less than wait old.
	Reserve(ctx context.Context, address common.Address, now time.Time, wait time.Duration) (bool, error)
}

// Key is the canonical lowercase form of address used by every store
func Key(address common.Address) string {
	return strings.ToLower(address.Hex())
}

// MemoryStore keeps cooldowns in process memory; a restart clears them
type MemoryStore struct {
	mu     sync.Mutex
	grants map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grants: make(map[string]time.Time)}
}

func (s *MemoryStore) Reserve(_ context.Context, address common.Address, now time.Time, wait time.Duration) (bool, error) {
	key := Key(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.grants[key]; ok && now.Sub(last) < wait {
		return false, nil
	}
	s.grants[key] = now
	return true, nil
}

// Len returns the number of addresses with a recorded grant
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grants)
}

// RedisStore shares cooldowns between faucet replicas. The key expires with the
// window, so a present key means the address must wait.
type RedisStore struct {
	client adapter.RedisClient
	prefix string
}

func NewRedisStore(client adapter.RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(address common.Address) string {
	return fmt.Sprintf("%sfaucet:grant:%s", s.prefix, Key(address))
}

func (s *RedisStore) Reserve(ctx context.Context, address common.Address, now time.Time, wait time.Duration) (bool, error) {
	// a zero TTL would never expire
	if wait <= 0 {
		return true, nil
	}

	ok, err := s.client.SetNX(ctx, s.key(address), now.UTC().Format(time.RFC3339Nano), wait)
	if err != nil {
		return false, fmt.Errorf("failed to reserve grant in redis: %w", err)
	}
	return ok, nil
}

// DBStore keeps cooldowns in the faucet_grants table
type DBStore struct {
	store store.Store
}

func NewDBStore(st store.Store) *DBStore {
	return &DBStore{store: st}
}

func (s *DBStore) Reserve(ctx context.Context, address common.Address, now time.Time, wait time.Duration) (bool, error) {
	return s.store.ReserveGrant(ctx, Key(address), now, wait)
}
