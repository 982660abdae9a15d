package faucet_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/faucet"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/mocks"
)

var (
	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", faucet.Key(alice))
}

func TestMemoryStoreCooldown(t *testing.T) {
	s := faucet.NewMemoryStore()
	ctx := context.Background()
	wait := 5 * time.Second

	ok, err := s.Reserve(ctx, alice, epoch, wait)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, alice, epoch.Add(4*time.Second), wait)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Reserve(ctx, bob, epoch.Add(4*time.Second), wait)
	require.NoError(t, err)
	assert.True(t, ok, "cooldowns are per address")

	ok, err = s.Reserve(ctx, alice, epoch.Add(5*time.Second), wait)
	require.NoError(t, err)
	assert.True(t, ok, "the window is measured from the last granted request")

	assert.Equal(t, 2, s.Len())
}

func TestRedisStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	s := faucet.NewRedisStore(client, "decibling:")
	ctx := context.Background()
	key := "decibling:faucet:grant:0x70997970c51812dc3a010c7d01b50e0d17dc79c8"

	gomock.InOrder(
		client.EXPECT().SetNX(ctx, key, "2024-03-01T09:00:00Z", 5*time.Second).Return(true, nil),
		client.EXPECT().SetNX(ctx, key, "2024-03-01T09:00:02Z", 5*time.Second).Return(false, nil),
		client.EXPECT().SetNX(ctx, key, gomock.Any(), 5*time.Second).Return(false, errors.New("connection refused")),
	)

	ok, err := s.Reserve(ctx, alice, epoch, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, alice, epoch.Add(2*time.Second), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Reserve(ctx, alice, epoch.Add(3*time.Second), 5*time.Second)
	assert.ErrorContains(t, err, "connection refused")

	ok, err = s.Reserve(ctx, alice, epoch, 0)
	require.NoError(t, err)
	assert.True(t, ok, "no window means no key is written")
}

func TestDBStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	s := faucet.NewDBStore(st)

	st.EXPECT().ReserveGrant(gomock.Any(), "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", epoch, time.Minute).Return(true, nil)

	ok, err := s.Reserve(context.Background(), alice, epoch, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
