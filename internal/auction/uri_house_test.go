package auction_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/auction"
	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/mocks"
)

type testURIHouse struct {
	ctrl    *gomock.Controller
	backend *mocks.MockBackend
	bidding *mocks.MockBiddingReader
	auction *contract.Contract
	house   *auction.URIHouse
}

func setupTestURIHouse(t *testing.T) *testURIHouse {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	bidding := mocks.NewMockBiddingReader(ctrl)

	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)
	v1, err := registry.Lookup(contract.Auction, 1)
	require.NoError(t, err)
	auctionContract := v1.Bind(escrowAddr, backend)

	return &testURIHouse{
		ctrl:    ctrl,
		backend: backend,
		bidding: bidding,
		auction: auctionContract,
		house:   auction.NewURIHouse(auctionContract, bidding, registry),
	}
}

func (th *testURIHouse) tearDown() {
	th.ctrl.Finish()
}

func (th *testURIHouse) expectCall(t *testing.T, method string, args []interface{}, outputs ...interface{}) {
	t.Helper()
	input, err := th.auction.Pack(method, args...)
	require.NoError(t, err)
	output, err := th.auction.ABI().Methods[method].Outputs.Pack(outputs...)
	require.NoError(t, err)
	th.backend.EXPECT().Call(gomock.Any(), chain.CallRequest{To: escrowAddr, Data: input}).Return(output, nil)
}

func (th *testURIHouse) expectTx(t *testing.T, method string, args ...interface{}) {
	t.Helper()
	input, err := th.auction.Pack(method, args...)
	require.NoError(t, err)
	th.backend.EXPECT().Transact(gomock.Any(), chain.TxRequest{To: escrowAddr, Data: input}).Return(receipt(1), nil)
}

// expectSession expects the listing read followed by the storage read of its current session
func (th *testURIHouse) expectSession(t *testing.T, uri string, owner common.Address, saleCount int64, session map[string]interface{}) {
	t.Helper()
	th.expectCall(t, "listNFT", []interface{}{uri}, owner, uri, big.NewInt(0), big.NewInt(saleCount), uint8(domain.ItemStatusOnAuction))
	th.bidding.EXPECT().Bidding(gomock.Any(), escrowAddr, uri, uint64(saleCount)).Return(session, nil)
}

func biddingSession(winner common.Address, price *big.Int) map[string]interface{} {
	return map[string]interface{}{
		"winner":         winner,
		"price":          price,
		"status":         big.NewInt(int64(domain.ItemStatusOnAuction)),
		"startTime":      big.NewInt(start.Unix()),
		"endTime":        big.NewInt(end.Unix()),
		"currentSession": big.NewInt(0),
	}
}

func TestURIHouseKey(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	id := th.house.Key("rand")
	assert.Equal(t, new(big.Int).SetBytes(crypto.Keccak256([]byte("rand"))), id)
	assert.Equal(t, id, th.house.Key("rand"))
	assert.NotEqual(t, id, th.house.Key("rand2"))
}

func TestURIHouseMint(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	input, err := th.auction.Pack("createNFT", "rand", "rand")
	require.NoError(t, err)

	created := th.auction.ABI().Events["NFTCreated"]
	data, err := created.Inputs.NonIndexed().Pack("rand")
	require.NoError(t, err)

	mined := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: common.Hash{1},
		Logs: []*types.Log{{
			Address: escrowAddr,
			Topics:  []common.Hash{created.ID, common.BytesToHash(artist.Bytes())},
			Data:    data,
		}},
	}
	th.backend.EXPECT().Transact(gomock.Any(), chain.TxRequest{To: escrowAddr, Data: input}).Return(mined, nil)

	id, r, err := th.house.Mint(context.Background(), [][32]byte{{1}}, "rand", "rand")
	require.NoError(t, err)
	assert.Equal(t, th.house.Key("rand"), id)
	assert.Equal(t, mined, r)
}

func TestURIHouseMintWithoutEventIsDecodeError(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	th.backend.EXPECT().Transact(gomock.Any(), gomock.Any()).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

	_, _, err := th.house.Mint(context.Background(), nil, "rand", "rand")
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestURIHouseUnknownItem(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	_, err := th.house.OwnerOf(context.Background(), big.NewInt(42))
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = th.house.Bid(context.Background(), big.NewInt(42), tokens(1))
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	id := th.house.Key("never-created")
	th.expectCall(t, "listNFT", []interface{}{"never-created"}, common.Address{}, "", big.NewInt(0), big.NewInt(0), uint8(0))
	_, err = th.house.OwnerOf(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestURIHouseItem(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	id := th.house.Key("rand")
	th.expectCall(t, "listNFT", []interface{}{"rand"}, collector2, "rand", tokens(2000), big.NewInt(1), uint8(domain.ItemStatusSold))

	item, err := th.house.Item(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, collector2, item.Owner)
	assert.Equal(t, "rand", item.URI)
	assert.Equal(t, int64(1), item.SaleCount.Int64())
	assert.Equal(t, domain.ItemStatusSold, item.Status)

	approved, err := th.house.Approved(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, th.house.Escrow(), approved)
	_, err = th.house.ApproveItem(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestURIHouseAuctionMigratesBiddingSession(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	ctx := context.Background()
	id := th.house.Key("rand")

	th.expectSession(t, "rand", artist, 1, biddingSession(collector2, tokens(2000)))
	a, err := th.house.Auction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, a.ItemID)
	assert.Equal(t, artist, a.Owner)
	assert.Equal(t, collector2, a.Winner)
	assert.Equal(t, int64(1), a.SaleCount.Int64())
	assert.True(t, a.StartTime.Equal(start))
	assert.True(t, a.EndTime.Equal(end))
	assert.True(t, a.Active())

	th.expectSession(t, "rand", artist, 1, biddingSession(collector2, tokens(2000)))
	top, err := th.house.TopBid(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, collector2, top.Bidder)
	assert.Equal(t, tokens(2000), top.Price)

	th.expectSession(t, "rand", artist, 0, biddingSession(common.Address{}, tokens(1000)))
	top, err = th.house.TopBid(ctx, id)
	require.NoError(t, err)
	assert.True(t, top.Empty())
}

func TestURIHouseAuctionWithoutSession(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	id := th.house.Key("rand")
	th.expectSession(t, "rand", artist, 0, map[string]interface{}{
		"winner":    common.Address{},
		"price":     big.NewInt(0),
		"status":    big.NewInt(0),
		"startTime": big.NewInt(0),
		"endTime":   big.NewInt(0),
	})

	a, err := th.house.Auction(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, a.Exists())
	assert.False(t, a.Active())
}

func TestURIHouseAuctionUndecodableStatus(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	session := biddingSession(common.Address{}, tokens(1000))
	session["status"] = "on_auction"

	id := th.house.Key("rand")
	th.expectSession(t, "rand", artist, 0, session)

	_, err := th.house.Auction(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestURIHouseWrites(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	ctx := context.Background()
	id := th.house.Key("rand")

	th.expectTx(t, "createBidding", "rand", tokens(1000), tokens(1), big.NewInt(start.Unix()), big.NewInt(end.Unix()))
	th.expectTx(t, "bid", "rand", tokens(1000))
	th.expectTx(t, "updateBidEndtime", "rand", big.NewInt(end.Unix()))
	th.expectTx(t, "settleBiddingSession", "rand")
	th.expectTx(t, "cancelBid", "rand")

	_, err := th.house.CreateBidding(ctx, auction.BiddingRequest{ItemID: id, StartPrice: tokens(1000), Increment: tokens(1), StartTime: start, EndTime: end})
	require.NoError(t, err)
	_, err = th.house.Bid(ctx, id, tokens(1000))
	require.NoError(t, err)
	_, err = th.house.UpdateBidEndTime(ctx, id, end)
	require.NoError(t, err)
	_, err = th.house.SettleBid(ctx, id)
	require.NoError(t, err)
	_, err = th.house.CancelBid(ctx, id)
	require.NoError(t, err)
}

func TestURIHouseFeesAndAdmin(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	th.expectCall(t, "firstSaleFee", nil, big.NewInt(1250))
	th.expectCall(t, "secondSaleFee", nil, big.NewInt(1000))
	th.expectCall(t, "owner", nil, artist)

	fees, err := th.house.Fees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auction.DefaultFees(common.Address{}), fees)

	admin, err := th.house.IsAdmin(context.Background(), artist)
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestOrchestratorSettlesBiddingSession(t *testing.T) {
	th := setupTestURIHouse(t)
	defer th.tearDown()

	chainClient := mocks.NewMockChainClient(th.ctrl)
	chainClient.EXPECT().Address().Return(artist).AnyTimes()
	chainClient.EXPECT().BlockTime(gomock.Any()).Return(end.Add(100*time.Second), nil).AnyTimes()

	id := th.house.Key("rand")
	th.expectSession(t, "rand", artist, 0, biddingSession(collector2, tokens(2000)))
	th.expectSession(t, "rand", artist, 0, biddingSession(collector2, tokens(2000)))
	th.expectCall(t, "firstSaleFee", nil, big.NewInt(1250))
	th.expectCall(t, "secondSaleFee", nil, big.NewInt(1000))
	th.expectTx(t, "settleBiddingSession", "rand")

	o := auction.NewOrchestrator(chainClient, th.house, mocks.NewMockToken(th.ctrl))
	result, err := o.SettleBiddingSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, collector2, result.Winner)
	assert.Equal(t, tokens(250), result.Settlement.Fee)
	assert.Equal(t, tokens(1750), result.Settlement.SellerProceeds)
}
