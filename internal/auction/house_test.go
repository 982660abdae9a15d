package auction_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/auction"
	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/mocks"
)

var (
	nftAddr   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tokenAddr = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
)

type testHouse struct {
	ctrl    *gomock.Controller
	backend *mocks.MockBackend
	nft     *contract.Contract
	auction *contract.Contract
	erc20   *contract.Contract
	house   *auction.ContractHouse
	token   *auction.ContractToken
}

func setupTestHouse(t *testing.T) *testHouse {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)

	bind := func(name string, address common.Address) *contract.Contract {
		iface, err := registry.Latest(name)
		require.NoError(t, err)
		return iface.Bind(address, backend)
	}

	nft := bind(contract.NFT, nftAddr)
	auctionContract := bind(contract.Auction, escrowAddr)
	erc20 := bind(contract.ERC20, tokenAddr)

	return &testHouse{
		ctrl:    ctrl,
		backend: backend,
		nft:     nft,
		auction: auctionContract,
		erc20:   erc20,
		house:   auction.NewContractHouse(nft, auctionContract),
		token:   auction.NewContractToken(erc20),
	}
}

func (th *testHouse) tearDown() {
	th.ctrl.Finish()
}

func (th *testHouse) expectCall(t *testing.T, c *contract.Contract, method string, args []interface{}, outputs ...interface{}) {
	t.Helper()
	input, err := c.Pack(method, args...)
	require.NoError(t, err)
	output, err := c.ABI().Methods[method].Outputs.Pack(outputs...)
	require.NoError(t, err)
	th.backend.EXPECT().Call(gomock.Any(), chain.CallRequest{To: c.Address(), Data: input}).Return(output, nil)
}

func TestContractHouseMint(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	input, err := th.nft.Pack("mint", [][32]byte{}, "rand", "rand")
	require.NoError(t, err)

	minted := th.nft.ABI().Events["Minted"]
	data, err := minted.Inputs.NonIndexed().Pack(big.NewInt(3))
	require.NoError(t, err)

	mined := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: common.Hash{1},
		Logs:   []*types.Log{{Address: nftAddr, Topics: []common.Hash{minted.ID}, Data: data, BlockNumber: 4}},
	}
	th.backend.EXPECT().Transact(gomock.Any(), chain.TxRequest{To: nftAddr, Data: input}).Return(mined, nil)

	id, r, err := th.house.Mint(context.Background(), nil, "rand", "rand")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id.Int64())
	assert.Equal(t, mined, r)
}

func TestContractHouseMintWithoutEventIsDecodeError(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	th.backend.EXPECT().Transact(gomock.Any(), gomock.Any()).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

	_, _, err := th.house.Mint(context.Background(), nil, "rand", "rand")
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestContractHouseOwnerOfRevertIsItemNotFound(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	th.backend.EXPECT().Call(gomock.Any(), gomock.Any()).Return(nil, &domain.RevertError{Code: "ERC721: invalid token ID"})

	_, err := th.house.OwnerOf(context.Background(), big.NewInt(42))
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestContractHouseAuctionRoundTrip(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	th.expectCall(t, th.auction, "auctions", []interface{}{itemID},
		artist, tokens(1000), tokens(1), big.NewInt(start.Unix()), big.NewInt(end.Unix()), false, big.NewInt(0))
	th.expectCall(t, th.auction, "topBids", []interface{}{itemID},
		collector1, tokens(1000), big.NewInt(start.Unix()+30))

	a, err := th.house.Auction(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, artist, a.Owner)
	assert.Equal(t, tokens(1000), a.StartPrice)
	assert.Equal(t, tokens(1), a.Increment)
	assert.True(t, a.StartTime.Equal(start))
	assert.True(t, a.EndTime.Equal(end))
	assert.True(t, a.Active())

	top, err := th.house.TopBid(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, collector1, top.Bidder)
	assert.False(t, top.Empty())
}

func TestContractHouseItem(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	th.expectCall(t, th.nft, "ownerOf", []interface{}{itemID}, collector2)
	th.expectCall(t, th.nft, "nftInfos", []interface{}{itemID}, "rand")
	th.expectCall(t, th.nft, "tokenURI", []interface{}{itemID}, "https://example.com/testaudio")
	th.expectCall(t, th.auction, "auctions", []interface{}{itemID},
		artist, tokens(1000), tokens(1), big.NewInt(start.Unix()), big.NewInt(end.Unix()), true, big.NewInt(1))

	item, err := th.house.Item(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, collector2, item.Owner)
	assert.Equal(t, "rand", item.Name)
	assert.Equal(t, "https://example.com/testaudio", item.URI)
	assert.Equal(t, domain.ItemStatusSold, item.Status)
}

func TestContractHouseFeesAndAdmin(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	th.expectCall(t, th.auction, "firstSaleFee", nil, big.NewInt(1250))
	th.expectCall(t, th.auction, "secondSaleFee", nil, big.NewInt(1000))
	th.expectCall(t, th.auction, "platformFeeRecipient", nil, feeRecipient)
	th.expectCall(t, th.auction, "owner", nil, artist)

	fees, err := th.house.Fees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auction.DefaultFees(feeRecipient), fees)

	admin, err := th.house.IsAdmin(context.Background(), collector1)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestContractHouseWrites(t *testing.T) {
	th := setupTestHouse(t)
	defer th.tearDown()

	expectTx := func(c *contract.Contract, method string, args ...interface{}) {
		input, err := c.Pack(method, args...)
		require.NoError(t, err)
		th.backend.EXPECT().Transact(gomock.Any(), chain.TxRequest{To: c.Address(), Data: input}).Return(receipt(1), nil)
	}

	expectTx(th.nft, "approve", escrowAddr, itemID)
	expectTx(th.auction, "createBidding", itemID, tokens(1000), tokens(1), big.NewInt(start.Unix()), big.NewInt(end.Unix()))
	expectTx(th.auction, "bid", itemID, tokens(1000))
	expectTx(th.auction, "updateBidEndTime", itemID, big.NewInt(end.Unix()))
	expectTx(th.auction, "settleBid", itemID)
	expectTx(th.auction, "cancelBid", itemID)
	expectTx(th.erc20, "approve", escrowAddr, tokens(1000))

	ctx := context.Background()
	_, err := th.house.ApproveItem(ctx, itemID)
	require.NoError(t, err)
	_, err = th.house.CreateBidding(ctx, auction.BiddingRequest{ItemID: itemID, StartPrice: tokens(1000), Increment: tokens(1), StartTime: start, EndTime: end})
	require.NoError(t, err)
	_, err = th.house.Bid(ctx, itemID, tokens(1000))
	require.NoError(t, err)
	_, err = th.house.UpdateBidEndTime(ctx, itemID, end)
	require.NoError(t, err)
	_, err = th.house.SettleBid(ctx, itemID)
	require.NoError(t, err)
	_, err = th.house.CancelBid(ctx, itemID)
	require.NoError(t, err)
	_, err = th.token.Approve(ctx, escrowAddr, tokens(1000))
	require.NoError(t, err)
}

func TestComputeSettlement(t *testing.T) {
	fees := auction.DefaultFees(feeRecipient)

	tests := []struct {
		name      string
		price     int64
		saleCount int64
		fee       int64
		proceeds  int64
	}{
		{name: "first sale", price: 2000, saleCount: 0, fee: 250, proceeds: 1750},
		{name: "second sale", price: 2000, saleCount: 1, fee: 200, proceeds: 1800},
		{name: "rounds down", price: 7, saleCount: 0, fee: 0, proceeds: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := auction.ComputeSettlement(big.NewInt(tt.price), big.NewInt(tt.saleCount), fees)
			assert.Equal(t, tt.fee, s.Fee.Int64())
			assert.Equal(t, tt.proceeds, s.SellerProceeds.Int64())
			assert.Equal(t, tt.price, new(big.Int).Add(s.Fee, s.SellerProceeds).Int64())
		})
	}
}

func TestMinimumBid(t *testing.T) {
	a := openAuction()
	assert.Equal(t, tokens(1000), auction.MinimumBid(a, noBid()))
	assert.Equal(t, new(big.Int).Add(tokens(2000), big.NewInt(1)),
		auction.MinimumBid(a, &domain.Bid{Bidder: collector1, Price: tokens(2000)}),
		"the increment is the contract's call, one wei above the top bid passes")

	a.Increment = big.NewInt(0)
	assert.Equal(t, int64(2001), auction.MinimumBid(a, &domain.Bid{Bidder: collector1, Price: big.NewInt(2000)}).Int64())
}
