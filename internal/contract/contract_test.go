package contract_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/mocks"
)

var (
	tokenAddr   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	auctionAddr = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	alice       = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob         = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	goleak.VerifyTestMain(m)
}

type testContract struct {
	ctrl     *gomock.Controller
	backend  *mocks.MockBackend
	registry *contract.Registry
}

func setupTestContract(t *testing.T) *testContract {
	ctrl := gomock.NewController(t)
	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)

	return &testContract{
		ctrl:     ctrl,
		backend:  mocks.NewMockBackend(ctrl),
		registry: registry,
	}
}

func (tc *testContract) tearDown() {
	tc.ctrl.Finish()
}

func (tc *testContract) bind(t *testing.T, name string, address common.Address) *contract.Contract {
	iface, err := tc.registry.Latest(name)
	require.NoError(t, err)
	return iface.Bind(address, tc.backend)
}

func TestCall(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)
	expectedInput, err := token.Pack("balanceOf", alice)
	require.NoError(t, err)
	output, err := token.ABI().Methods["balanceOf"].Outputs.Pack(big.NewInt(1_000_000))
	require.NoError(t, err)

	tc.backend.EXPECT().Call(gomock.Any(), chain.CallRequest{To: tokenAddr, Data: expectedInput}).Return(output, nil)

	values, err := token.Call(context.Background(), "balanceOf", alice)
	require.NoError(t, err)

	balance, err := contract.BigInt(values, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), balance.Int64())

	_, err = contract.Address(values, 0)
	assert.ErrorIs(t, err, domain.ErrDecode)
	_, err = contract.BigInt(values, 1)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestCallInto(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	auction := tc.bind(t, contract.Auction, auctionAddr)
	output, err := auction.ABI().Methods["auctions"].Outputs.Pack(
		alice, big.NewInt(1000), big.NewInt(1), big.NewInt(1_700_000_000), big.NewInt(1_700_000_600), false, big.NewInt(0))
	require.NoError(t, err)

	tc.backend.EXPECT().Call(gomock.Any(), gomock.Any()).Return(output, nil)

	var record struct {
		Owner      common.Address
		StartPrice *big.Int
		Increment  *big.Int
		StartTime  *big.Int
		EndTime    *big.Int
		Resulted   bool
		SaleCount  *big.Int
	}
	require.NoError(t, auction.CallInto(context.Background(), &record, "auctions", big.NewInt(0)))

	assert.Equal(t, alice, record.Owner)
	assert.Equal(t, int64(1000), record.StartPrice.Int64())
	assert.Equal(t, int64(1_700_000_600), record.EndTime.Int64())
	assert.False(t, record.Resulted)
}

func TestCallEmptyReturnIsDecodeError(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)
	tc.backend.EXPECT().Call(gomock.Any(), gomock.Any()).Return([]byte{}, nil)

	_, err := token.Call(context.Background(), "totalSupply")
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestCallMalformedReturnIsDecodeError(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)
	tc.backend.EXPECT().Call(gomock.Any(), gomock.Any()).Return([]byte{0x01, 0x02}, nil)

	_, err := token.Call(context.Background(), "name")
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestCallPropagatesRPCError(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)
	tc.backend.EXPECT().Call(gomock.Any(), gomock.Any()).Return(nil, domain.NewRPCError("eth_call", errors.New("timeout")))

	_, err := token.Call(context.Background(), "totalSupply")
	assert.ErrorIs(t, err, domain.ErrRPC)
}

func TestMethodKindIsEnforced(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)

	_, err := token.Call(context.Background(), "approve", alice, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = token.Transact(context.Background(), "balanceOf", nil, alice)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = token.Transact(context.Background(), "transfer", big.NewInt(1), alice, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = token.Call(context.Background(), "doesNotExist")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = token.Pack("balanceOf", "not-an-address")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransact(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)
	expectedInput, err := token.Pack("approve", auctionAddr, big.NewInt(2000))
	require.NoError(t, err)

	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.HexToHash("0x01")}
	tc.backend.EXPECT().Transact(gomock.Any(), chain.TxRequest{To: tokenAddr, Data: expectedInput}).Return(receipt, nil)

	got, err := token.Transact(context.Background(), "approve", nil, auctionAddr, big.NewInt(2000))
	require.NoError(t, err)
	assert.Equal(t, receipt, got)
}

func TestTransactPropagatesRevertCode(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	auction := tc.bind(t, contract.Auction, auctionAddr)
	tc.backend.EXPECT().Transact(gomock.Any(), gomock.Any()).Return(nil, &domain.RevertError{Code: "13"})

	_, err := auction.Transact(context.Background(), "bid", nil, big.NewInt(0), big.NewInt(1000))
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
	assert.ErrorIs(t, err, domain.ErrBidTooLow)
	assert.True(t, contract.IsRevert(err))

	code, ok := domain.RevertCode(err)
	require.True(t, ok)
	assert.Equal(t, "13", code)
}

func transferLog(t *testing.T, token *contract.Contract, from, to common.Address, value int64, block uint64, index uint) types.Log {
	t.Helper()
	data, err := token.ABI().Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(value))
	require.NoError(t, err)

	return types.Log{
		Address: token.Address(),
		Topics: []common.Hash{
			token.ABI().Events["Transfer"].ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data:        data,
		BlockNumber: block,
		Index:       index,
		TxHash:      common.BigToHash(big.NewInt(int64(block))),
	}
}

func TestParseLog(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)

	ev, err := token.ParseLog(transferLog(t, token, alice, bob, 42, 7, 3))
	require.NoError(t, err)

	assert.Equal(t, "Transfer", ev.Name)
	assert.Equal(t, contract.ERC20, ev.Contract)
	assert.Equal(t, uint64(7), ev.BlockNumber)
	assert.Equal(t, uint(3), ev.LogIndex)
	assert.Equal(t, alice, ev.Args["from"])
	assert.Equal(t, bob, ev.Args["to"])
	assert.Equal(t, big.NewInt(42), ev.Args["value"])
}

func TestParseLogUnknownTopic(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)

	_, err := token.ParseLog(types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}})
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = token.ParseLog(types.Log{})
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestEvents(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	nft := tc.bind(t, contract.NFT, auctionAddr)
	minted := nft.ABI().Events["Minted"]
	data, err := minted.Inputs.Pack(big.NewInt(1))
	require.NoError(t, err)

	receipt := &types.Receipt{Logs: []*types.Log{
		{Address: auctionAddr, Topics: []common.Hash{minted.ID}, Data: data},
		{Address: tokenAddr, Topics: []common.Hash{minted.ID}, Data: data},
		{Address: auctionAddr, Topics: []common.Hash{nft.ABI().Events["Approval"].ID}},
	}}

	events, err := nft.Events(receipt, "Minted")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, big.NewInt(1), events[0].Args["tokenId"])

	_, err = nft.Events(receipt, "Burned")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFilterEvents(t *testing.T) {
	tc := setupTestContract(t)
	defer tc.tearDown()

	token := tc.bind(t, contract.ERC20, tokenAddr)
	removed := transferLog(t, token, alice, bob, 2, 11, 0)
	removed.Removed = true

	tc.backend.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
			assert.Equal(t, []common.Address{tokenAddr}, q.Addresses)
			return []types.Log{transferLog(t, token, alice, bob, 1, 10, 0), removed}, nil
		})

	events, err := token.FilterEvents(context.Background(), big.NewInt(0), nil, "Transfer")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(10), events[0].BlockNumber)
}
