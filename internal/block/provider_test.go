package block_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/block"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testProvider struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockChainClient
	clock    *mocks.MockClock
	provider block.Provider
}

func setupTestProvider(t *testing.T, config block.Config) *testProvider {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockChainClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	return &testProvider{
		ctrl:     ctrl,
		fetcher:  fetcher,
		clock:    clock,
		provider: block.NewProvider(fetcher, config, clock),
	}
}

func (tp *testProvider) tearDown() {
	tp.ctrl.Finish()
}

var (
	epoch  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config = block.Config{TTL: 10 * time.Second, StaleWindow: 2 * time.Minute}
)

func TestLatestBlockUsesCacheWithinTTL(t *testing.T) {
	tp := setupTestProvider(t, config)
	defer tp.tearDown()
	ctx := context.Background()

	tp.clock.EXPECT().Now().Return(epoch)
	tp.fetcher.EXPECT().BlockNumber(ctx).Return(uint64(1000), nil)

	n, err := tp.provider.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), n)

	tp.clock.EXPECT().Now().Return(epoch.Add(5 * time.Second))

	n, err = tp.provider.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), n)
}

func TestLatestBlockRefreshesAfterTTL(t *testing.T) {
	tp := setupTestProvider(t, config)
	defer tp.tearDown()
	ctx := context.Background()

	gomock.InOrder(
		tp.fetcher.EXPECT().BlockNumber(ctx).Return(uint64(1000), nil),
		tp.fetcher.EXPECT().BlockNumber(ctx).Return(uint64(1004), nil),
	)
	tp.clock.EXPECT().Now().Return(epoch)
	_, err := tp.provider.LatestBlock(ctx)
	require.NoError(t, err)

	tp.clock.EXPECT().Now().Return(epoch.Add(11 * time.Second))
	n, err := tp.provider.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1004), n)
}

func TestLatestBlockServesStaleOnFailure(t *testing.T) {
	tp := setupTestProvider(t, config)
	defer tp.tearDown()
	ctx := context.Background()

	gomock.InOrder(
		tp.fetcher.EXPECT().BlockNumber(ctx).Return(uint64(1000), nil),
		tp.fetcher.EXPECT().BlockNumber(ctx).Return(uint64(0), errors.New("rpc down")).Times(2),
	)
	tp.clock.EXPECT().Now().Return(epoch)
	_, err := tp.provider.LatestBlock(ctx)
	require.NoError(t, err)

	tp.clock.EXPECT().Now().Return(epoch.Add(time.Minute))
	n, err := tp.provider.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), n)

	tp.clock.EXPECT().Now().Return(epoch.Add(3 * time.Minute))
	_, err = tp.provider.LatestBlock(ctx)
	assert.ErrorContains(t, err, "rpc down")
}

func TestLatestBlockFailureWithoutCache(t *testing.T) {
	tp := setupTestProvider(t, config)
	defer tp.tearDown()
	ctx := context.Background()

	tp.clock.EXPECT().Now().Return(epoch)
	tp.fetcher.EXPECT().BlockNumber(ctx).Return(uint64(0), errors.New("rpc down"))

	_, err := tp.provider.LatestBlock(ctx)
	assert.Error(t, err)
}

func TestBlockTimeIsCached(t *testing.T) {
	tp := setupTestProvider(t, config)
	defer tp.tearDown()
	ctx := context.Background()

	mined := epoch.Add(-time.Hour)
	tp.fetcher.EXPECT().BlockTimeAt(ctx, uint64(7)).Return(mined, nil).Times(1)

	for i := 0; i < 3; i++ {
		ts, err := tp.provider.BlockTime(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, mined, ts)
	}
}

func TestBlockTimeFailureIsNotCached(t *testing.T) {
	tp := setupTestProvider(t, config)
	defer tp.tearDown()
	ctx := context.Background()

	gomock.InOrder(
		tp.fetcher.EXPECT().BlockTimeAt(ctx, uint64(7)).Return(time.Time{}, errors.New("timeout")),
		tp.fetcher.EXPECT().BlockTimeAt(ctx, uint64(7)).Return(epoch, nil),
	)

	_, err := tp.provider.BlockTime(ctx, 7)
	assert.ErrorContains(t, err, "block 7")

	ts, err := tp.provider.BlockTime(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, epoch, ts)
}

func TestBlockTimeEvictsOldest(t *testing.T) {
	tp := setupTestProvider(t, block.Config{TimestampCacheSize: 1})
	defer tp.tearDown()
	ctx := context.Background()

	tp.fetcher.EXPECT().BlockTimeAt(ctx, uint64(1)).Return(epoch, nil).Times(2)
	tp.fetcher.EXPECT().BlockTimeAt(ctx, uint64(2)).Return(epoch.Add(12*time.Second), nil)

	_, err := tp.provider.BlockTime(ctx, 1)
	require.NoError(t, err)
	_, err = tp.provider.BlockTime(ctx, 2)
	require.NoError(t, err)
	_, err = tp.provider.BlockTime(ctx, 1)
	require.NoError(t, err)
}
