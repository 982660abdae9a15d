package staking_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/mocks"
	"github.com/decibling/smart-contracts/internal/staking"
)

var reserveAddr = common.HexToAddress("0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9")

type testPools struct {
	ctrl    *gomock.Controller
	backend *mocks.MockBackend
	staking *contract.Contract
	reserve *contract.Contract
	pools   *staking.ContractPools
}

func setupTestPools(t *testing.T) *testPools {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)

	stakingIface, err := registry.Latest(contract.Staking)
	require.NoError(t, err)
	reserveIface, err := registry.Latest(contract.Reserve)
	require.NoError(t, err)

	s := stakingIface.Bind(stakingAddr, backend)
	r := reserveIface.Bind(reserveAddr, backend)
	return &testPools{ctrl: ctrl, backend: backend, staking: s, reserve: r, pools: staking.NewContractPools(s, r)}
}

func (tp *testPools) tearDown() {
	tp.ctrl.Finish()
}

func (tp *testPools) expectCall(t *testing.T, c *contract.Contract, method string, args []interface{}, outputs ...interface{}) {
	t.Helper()
	input, err := c.Pack(method, args...)
	require.NoError(t, err)
	output, err := c.ABI().Methods[method].Outputs.Pack(outputs...)
	require.NoError(t, err)
	tp.backend.EXPECT().Call(gomock.Any(), chain.CallRequest{To: c.Address(), Data: input}).Return(output, nil)
}

func TestContractPoolsReads(t *testing.T) {
	tp := setupTestPools(t)
	defer tp.tearDown()

	tp.expectCall(t, tp.staking, "pools", []interface{}{poolID},
		artist, big.NewInt(5), big.NewInt(3), domain.DefaultPoolHardCap(), big.NewInt(1_000))
	tp.expectCall(t, tp.staking, "stakers", []interface{}{poolID, user1}, big.NewInt(1_000), big.NewInt(1_700_000_000))
	tp.expectCall(t, tp.staking, "stakers", []interface{}{poolID, user2}, big.NewInt(0), big.NewInt(0))
	tp.expectCall(t, tp.staking, "payout", []interface{}{poolID, user1, true}, big.NewInt(42))
	tp.expectCall(t, tp.reserve, "payoutFee", nil, big.NewInt(10))
	tp.expectCall(t, tp.staking, "owner", nil, admin)

	ctx := context.Background()

	pool, err := tp.pools.Pool(ctx, poolID)
	require.NoError(t, err)
	assert.True(t, pool.Exists())
	assert.Equal(t, artist, pool.Owner)
	assert.Equal(t, int64(5), pool.R.Int64())
	assert.Equal(t, int64(3), pool.RToOwner.Int64())
	assert.Equal(t, 0, pool.HardCap.Cmp(domain.DefaultPoolHardCap()))

	stake, err := tp.pools.Staker(ctx, poolID, user1)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), stake.Amount.Int64())
	assert.True(t, stake.DepositTime.Equal(time.Unix(1_700_000_000, 0)))

	never, err := tp.pools.Staker(ctx, poolID, user2)
	require.NoError(t, err)
	assert.True(t, never.DepositTime.IsZero())

	payout, err := tp.pools.Payout(ctx, poolID, user1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), payout.Int64())

	fee, err := tp.pools.PayoutFee(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fee.Int64())

	isAdmin, err := tp.pools.IsAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestContractPoolsWrites(t *testing.T) {
	tp := setupTestPools(t)
	defer tp.tearDown()

	expectTx := func(method string, args ...interface{}) {
		input, err := tp.staking.Pack(method, args...)
		require.NoError(t, err)
		tp.backend.EXPECT().Transact(gomock.Any(), chain.TxRequest{To: stakingAddr, Data: input}).Return(receipt(1), nil)
	}

	empty := [][32]byte{}
	expectTx("newPool", empty, poolID)
	expectTx("updatePool", empty, poolID, big.NewInt(4), big.NewInt(4))
	expectTx("updatePoolOwner", empty, poolID, user2)
	expectTx("setDefaultPool")
	expectTx("stake", poolID, big.NewInt(1_000))
	expectTx("unstake", poolID, big.NewInt(1_000))
	expectTx("claim", poolID)
	expectTx("claimForPoolProfit", poolID, []common.Address{user1, user2})

	ctx := context.Background()
	_, err := tp.pools.NewPool(ctx, nil, poolID)
	require.NoError(t, err)
	_, err = tp.pools.UpdatePool(ctx, nil, poolID, big.NewInt(4), big.NewInt(4))
	require.NoError(t, err)
	_, err = tp.pools.UpdatePoolOwner(ctx, nil, poolID, user2)
	require.NoError(t, err)
	_, err = tp.pools.SetDefaultPool(ctx)
	require.NoError(t, err)
	_, err = tp.pools.Stake(ctx, poolID, big.NewInt(1_000))
	require.NoError(t, err)
	_, err = tp.pools.Unstake(ctx, poolID, big.NewInt(1_000))
	require.NoError(t, err)
	_, err = tp.pools.Claim(ctx, poolID)
	require.NoError(t, err)
	_, err = tp.pools.ClaimForPoolProfit(ctx, poolID, []common.Address{user1, user2})
	require.NoError(t, err)

	assert.Equal(t, stakingAddr, tp.pools.Escrow())
}
