package staking_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/mocks"
	"github.com/decibling/smart-contracts/internal/staking"
)

var (
	stakingAddr = common.HexToAddress("0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9")
	admin       = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	artist      = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	user1       = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	user2       = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")

	poolID = "artist_pool"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testOrchestrator struct {
	ctrl         *gomock.Controller
	chain        *mocks.MockChainClient
	pools        *mocks.MockPools
	token        *mocks.MockToken
	orchestrator *staking.Orchestrator
}

func setupTestOrchestrator(t *testing.T, caller common.Address) *testOrchestrator {
	ctrl := gomock.NewController(t)
	chainClient := mocks.NewMockChainClient(ctrl)
	pools := mocks.NewMockPools(ctrl)
	token := mocks.NewMockToken(ctrl)

	chainClient.EXPECT().Address().Return(caller).AnyTimes()
	pools.EXPECT().Escrow().Return(stakingAddr).AnyTimes()

	return &testOrchestrator{
		ctrl:         ctrl,
		chain:        chainClient,
		pools:        pools,
		token:        token,
		orchestrator: staking.NewOrchestrator(chainClient, pools, token),
	}
}

func (to *testOrchestrator) tearDown() {
	to.ctrl.Finish()
}

func receipt(b byte) *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.Hash{b}}
}

func artistPool() *domain.Pool {
	return &domain.Pool{
		ID:       poolID,
		Owner:    artist,
		R:        big.NewInt(5),
		RToOwner: big.NewInt(3),
		HardCap:  domain.DefaultPoolHardCap(),
		Total:    big.NewInt(0),
	}
}

func unusedPool(id string) *domain.Pool {
	return &domain.Pool{ID: id, R: big.NewInt(0), RToOwner: big.NewInt(0), HardCap: big.NewInt(0), Total: big.NewInt(0)}
}

func requirePrecheck(t *testing.T, err error, sentinel error, code string) {
	t.Helper()
	require.ErrorIs(t, err, sentinel)
	var pe *domain.PrecheckError
	require.True(t, errors.As(err, &pe), "expected a precheck error, got %v", err)
	assert.Equal(t, code, pe.Code)
}

func TestNewPool(t *testing.T) {
	to := setupTestOrchestrator(t, artist)
	defer to.tearDown()

	proof := [][32]byte{{1}}
	to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(unusedPool(poolID), nil)
	to.pools.EXPECT().NewPool(gomock.Any(), proof, poolID).Return(receipt(1), nil)

	_, err := to.orchestrator.NewPool(context.Background(), proof, poolID)
	require.NoError(t, err)
}

func TestNewPoolExists(t *testing.T) {
	to := setupTestOrchestrator(t, artist)
	defer to.tearDown()

	to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)

	_, err := to.orchestrator.NewPool(context.Background(), nil, poolID)
	requirePrecheck(t, err, domain.ErrPoolExists, domain.RevertPoolExists)

	_, err = to.orchestrator.NewPool(context.Background(), nil, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePool(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().UpdatePool(gomock.Any(), gomock.Nil(), poolID, big.NewInt(4), big.NewInt(4)).Return(receipt(1), nil)

		_, err := to.orchestrator.UpdatePool(context.Background(), nil, poolID, big.NewInt(4), big.NewInt(4))
		require.NoError(t, err)
	})

	t.Run("admin", func(t *testing.T) {
		to := setupTestOrchestrator(t, admin)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().IsAdmin(gomock.Any(), admin).Return(true, nil)
		to.pools.EXPECT().UpdatePool(gomock.Any(), gomock.Any(), poolID, gomock.Any(), gomock.Any()).Return(receipt(1), nil)

		_, err := to.orchestrator.UpdatePool(context.Background(), nil, poolID, big.NewInt(4), big.NewInt(4))
		require.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().IsAdmin(gomock.Any(), user1).Return(false, nil)

		_, err := to.orchestrator.UpdatePool(context.Background(), nil, poolID, big.NewInt(4), big.NewInt(4))
		requirePrecheck(t, err, domain.ErrNotOwner, domain.RevertNotOwner)
	})

	t.Run("negative rate", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		_, err := to.orchestrator.UpdatePool(context.Background(), nil, poolID, big.NewInt(-1), big.NewInt(4))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUpdatePoolOwner(t *testing.T) {
	t.Run("zero address", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		_, err := to.orchestrator.UpdatePoolOwner(context.Background(), nil, poolID, common.Address{})
		requirePrecheck(t, err, domain.ErrInvalidAddress, domain.RevertZeroAddress)
	})

	t.Run("missing pool", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), "nope").Return(unusedPool("nope"), nil)

		_, err := to.orchestrator.UpdatePoolOwner(context.Background(), nil, "nope", user2)
		requirePrecheck(t, err, domain.ErrPoolNotFound, domain.RevertPoolNotExist)
	})

	t.Run("handover", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().UpdatePoolOwner(gomock.Any(), gomock.Any(), poolID, user2).Return(receipt(1), nil)

		_, err := to.orchestrator.UpdatePoolOwner(context.Background(), nil, poolID, user2)
		require.NoError(t, err)
	})
}

func TestSetDefaultPool(t *testing.T) {
	to := setupTestOrchestrator(t, admin)
	defer to.tearDown()

	to.pools.EXPECT().IsAdmin(gomock.Any(), admin).Return(true, nil)
	to.pools.EXPECT().Pool(gomock.Any(), domain.DEFAULT_POOL_ID).Return(unusedPool(domain.DEFAULT_POOL_ID), nil)
	to.pools.EXPECT().SetDefaultPool(gomock.Any()).Return(receipt(1), nil)

	_, err := to.orchestrator.SetDefaultPool(context.Background())
	require.NoError(t, err)
}

func TestStakeApprovesThenStakes(t *testing.T) {
	to := setupTestOrchestrator(t, user1)
	defer to.tearDown()

	amount := big.NewInt(1_000)
	gomock.InOrder(
		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil),
		to.token.EXPECT().Allowance(gomock.Any(), user1, stakingAddr).Return(big.NewInt(0), nil),
		to.token.EXPECT().Approve(gomock.Any(), stakingAddr, amount).Return(receipt(1), nil),
		to.pools.EXPECT().Stake(gomock.Any(), poolID, amount).Return(receipt(2), nil),
	)

	r, err := to.orchestrator.Stake(context.Background(), poolID, amount)
	require.NoError(t, err)
	assert.Equal(t, common.Hash{2}, r.TxHash)
}

func TestStakePrechecks(t *testing.T) {
	t.Run("zero amount", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		_, err := to.orchestrator.Stake(context.Background(), poolID, big.NewInt(0))
		requirePrecheck(t, err, domain.ErrZeroAmount, domain.RevertStakeZeroAmount)
	})

	t.Run("missing pool", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(unusedPool(poolID), nil)

		_, err := to.orchestrator.Stake(context.Background(), poolID, big.NewInt(1))
		requirePrecheck(t, err, domain.ErrPoolNotFound, domain.RevertPoolNotExist)
	})

	t.Run("over hard cap", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		full := artistPool()
		full.Total = domain.DefaultPoolHardCap()
		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(full, nil)

		_, err := to.orchestrator.Stake(context.Background(), poolID, big.NewInt(1))
		assert.ErrorIs(t, err, domain.ErrHardCapExceeded)
	})
}

func TestUnstake(t *testing.T) {
	stake := &domain.Stake{PoolID: poolID, Staker: user1, Amount: big.NewInt(1_000), DepositTime: time.Unix(1_700_000_000, 0)}

	t.Run("within balance", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().Staker(gomock.Any(), poolID, user1).Return(stake, nil)
		to.pools.EXPECT().Unstake(gomock.Any(), poolID, big.NewInt(1_000)).Return(receipt(1), nil)

		_, err := to.orchestrator.Unstake(context.Background(), poolID, big.NewInt(1_000))
		require.NoError(t, err)
	})

	t.Run("more than staked", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().Staker(gomock.Any(), poolID, user1).Return(stake, nil)

		_, err := to.orchestrator.Unstake(context.Background(), poolID, big.NewInt(1_001))
		requirePrecheck(t, err, domain.ErrInsufficientStake, domain.RevertUnstakeTooLarge)
	})

	t.Run("zero", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		_, err := to.orchestrator.Unstake(context.Background(), poolID, new(big.Int))
		assert.ErrorIs(t, err, domain.ErrZeroAmount)
	})

	t.Run("revert passes through", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().Staker(gomock.Any(), poolID, user1).Return(stake, nil)
		to.pools.EXPECT().Unstake(gomock.Any(), poolID, gomock.Any()).
			Return(nil, &domain.RevertError{Code: domain.RevertUnstakeTooLarge})

		_, err := to.orchestrator.Unstake(context.Background(), poolID, big.NewInt(500))
		code, ok := domain.RevertCode(err)
		require.True(t, ok)
		assert.Equal(t, domain.RevertUnstakeTooLarge, code)
		assert.ErrorIs(t, err, domain.ErrInsufficientStake)
	})
}

func TestClaimNetOfReserveFee(t *testing.T) {
	to := setupTestOrchestrator(t, user1)
	defer to.tearDown()

	to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
	to.pools.EXPECT().Payout(gomock.Any(), poolID, user1, false).Return(big.NewInt(51_271), nil)
	to.pools.EXPECT().PayoutFee(gomock.Any()).Return(big.NewInt(10), nil)
	to.pools.EXPECT().Claim(gomock.Any(), poolID).Return(receipt(1), nil)

	result, err := to.orchestrator.Claim(context.Background(), poolID)
	require.NoError(t, err)
	assert.Equal(t, int64(51_271), result.Gross.Int64())
	assert.Equal(t, int64(46_143), result.Net.Int64())
	assert.Equal(t, int64(5_128), result.Fee.Int64())
}

func TestClaimForPoolProfit(t *testing.T) {
	t.Run("owner claims across stakers", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		stakers := []common.Address{user1, user2}
		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
		to.pools.EXPECT().Payout(gomock.Any(), poolID, user1, true).Return(big.NewInt(300), nil)
		to.pools.EXPECT().Payout(gomock.Any(), poolID, user2, true).Return(big.NewInt(200), nil)
		to.pools.EXPECT().PayoutFee(gomock.Any()).Return(big.NewInt(10), nil)
		to.pools.EXPECT().ClaimForPoolProfit(gomock.Any(), poolID, stakers).Return(receipt(1), nil)

		result, err := to.orchestrator.ClaimForPoolProfit(context.Background(), poolID, stakers)
		require.NoError(t, err)
		assert.Equal(t, int64(500), result.Gross.Int64())
		assert.Equal(t, int64(450), result.Net.Int64())
	})

	t.Run("not the pool owner", func(t *testing.T) {
		to := setupTestOrchestrator(t, user1)
		defer to.tearDown()

		to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)

		_, err := to.orchestrator.ClaimForPoolProfit(context.Background(), poolID, []common.Address{user2})
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("no stakers", func(t *testing.T) {
		to := setupTestOrchestrator(t, artist)
		defer to.tearDown()

		_, err := to.orchestrator.ClaimForPoolProfit(context.Background(), poolID, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExpectedPayoutUsesChainTime(t *testing.T) {
	to := setupTestOrchestrator(t, user1)
	defer to.tearDown()

	deposit := time.Unix(1_700_000_000, 0)
	stake := &domain.Stake{PoolID: poolID, Staker: user1, Amount: big.NewInt(1_000_000), DepositTime: deposit}

	to.pools.EXPECT().Pool(gomock.Any(), poolID).Return(artistPool(), nil)
	to.pools.EXPECT().Staker(gomock.Any(), poolID, user1).Return(stake, nil)
	to.chain.EXPECT().BlockTime(gomock.Any()).Return(deposit.Add(365*24*time.Hour), nil)

	got, err := to.orchestrator.ExpectedPayout(context.Background(), poolID, user1, false)
	require.NoError(t, err)
	assert.Equal(t, int64(51_271), got.Int64())
}
