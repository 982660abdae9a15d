package auction

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
)

// BiddingReader reads one bidding session of the string-keyed auction from storage; slot.Resolver satisfies it
//
//go:generate mockgen -source=uri_house.go -destination=../mocks/bidding.go -package=mocks -mock_names=BiddingReader=MockBiddingReader
type BiddingReader interface {
	Bidding(ctx context.Context, auction common.Address, uri string, session uint64) (map[string]interface{}, error)
}

// URIHouse implements House over the string-keyed DeciblingAuction, which keeps
// items and their bidding sessions in one contract and names every item by uri.
//
// The item id of a uri is keccak256(uri), handed out by Key. Bidding sessions are
// read from storage and migrated to the DeciblingAuctionV2 record shape.
type URIHouse struct {
	auction  *contract.Contract
	bidding  BiddingReader
	registry *contract.Registry

	mu   sync.RWMutex
	uris map[string]string
}

func NewURIHouse(auction *contract.Contract, bidding BiddingReader, registry *contract.Registry) *URIHouse {
	return &URIHouse{
		auction:  auction,
		bidding:  bidding,
		registry: registry,
		uris:     make(map[string]string),
	}
}

// Key returns the item id standing for uri and remembers the pair
func (h *URIHouse) Key(uri string) *big.Int {
	id := new(big.Int).SetBytes(crypto.Keccak256([]byte(uri)))

	h.mu.Lock()
	h.uris[id.String()] = uri
	h.mu.Unlock()

	return id
}

func (h *URIHouse) uri(itemID *big.Int) (string, error) {
	if itemID == nil {
		return "", fmt.Errorf("%w: item id is required", domain.ErrInvalidInput)
	}

	h.mu.RLock()
	uri, ok := h.uris[itemID.String()]
	h.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: no uri is known for item %s", domain.ErrItemNotFound, itemID)
	}
	return uri, nil
}

func (h *URIHouse) Escrow() common.Address {
	return h.auction.Address()
}

// Mint calls createNFT; the string-keyed contract has no allow list, so proof is ignored
func (h *URIHouse) Mint(ctx context.Context, _ [][32]byte, uri, name string) (*big.Int, *types.Receipt, error) {
	receipt, err := h.auction.Transact(ctx, "createNFT", nil, uri, name)
	if err != nil {
		return nil, receipt, err
	}

	created, err := h.auction.Events(receipt, "NFTCreated")
	if err != nil {
		return nil, receipt, err
	}
	if len(created) == 0 {
		return nil, receipt, fmt.Errorf("%w: createNFT receipt %s has no NFTCreated event", domain.ErrDecode, receipt.TxHash.Hex())
	}

	return h.Key(uri), receipt, nil
}

type listingRecord struct {
	Owner     common.Address
	Name      string
	Price     *big.Int
	SaleCount *big.Int
	Status    uint8
}

func (h *URIHouse) listing(ctx context.Context, itemID *big.Int) (string, *listingRecord, error) {
	uri, err := h.uri(itemID)
	if err != nil {
		return "", nil, err
	}

	var r listingRecord
	if err := h.auction.CallInto(ctx, &r, "listNFT", uri); err != nil {
		return "", nil, err
	}
	if r.Owner == (common.Address{}) {
		return "", nil, fmt.Errorf("%w: %q is not listed", domain.ErrItemNotFound, uri)
	}
	return uri, &r, nil
}

func (h *URIHouse) OwnerOf(ctx context.Context, itemID *big.Int) (common.Address, error) {
	_, l, err := h.listing(ctx, itemID)
	if err != nil {
		return common.Address{}, err
	}
	return l.Owner, nil
}

func (h *URIHouse) Item(ctx context.Context, itemID *big.Int) (*domain.Item, error) {
	uri, l, err := h.listing(ctx, itemID)
	if err != nil {
		return nil, err
	}

	status := domain.ItemStatus(l.Status)
	if status == domain.ItemStatusUnset {
		status = domain.ItemStatusNotForSale
	}
	return &domain.Item{
		ID:        itemID,
		Owner:     l.Owner,
		Name:      l.Name,
		URI:       uri,
		SaleCount: l.SaleCount,
		Status:    status,
	}, nil
}

// Approved reports the contract itself: it holds its items, so there is nothing to approve
func (h *URIHouse) Approved(context.Context, *big.Int) (common.Address, error) {
	return h.Escrow(), nil
}

func (h *URIHouse) ApproveItem(_ context.Context, itemID *big.Int) (*types.Receipt, error) {
	return nil, fmt.Errorf("%w: item %s is held by the auction contract already", domain.ErrInvalidInput, itemID)
}

func (h *URIHouse) CreateBidding(ctx context.Context, req BiddingRequest) (*types.Receipt, error) {
	uri, err := h.uri(req.ItemID)
	if err != nil {
		return nil, err
	}
	return h.auction.Transact(ctx, "createBidding", nil,
		uri, req.StartPrice, req.Increment, unixBig(req.StartTime), unixBig(req.EndTime))
}

func (h *URIHouse) Bid(ctx context.Context, itemID, price *big.Int) (*types.Receipt, error) {
	uri, err := h.uri(itemID)
	if err != nil {
		return nil, err
	}
	return h.auction.Transact(ctx, "bid", nil, uri, price)
}

func (h *URIHouse) UpdateBidEndTime(ctx context.Context, itemID *big.Int, endTime time.Time) (*types.Receipt, error) {
	uri, err := h.uri(itemID)
	if err != nil {
		return nil, err
	}
	return h.auction.Transact(ctx, "updateBidEndtime", nil, uri, unixBig(endTime))
}

func (h *URIHouse) SettleBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error) {
	uri, err := h.uri(itemID)
	if err != nil {
		return nil, err
	}
	return h.auction.Transact(ctx, "settleBiddingSession", nil, uri)
}

func (h *URIHouse) CancelBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error) {
	uri, err := h.uri(itemID)
	if err != nil {
		return nil, err
	}
	return h.auction.Transact(ctx, "cancelBid", nil, uri)
}

// session reads the bidding session numbered by the listing's sale count
func (h *URIHouse) session(ctx context.Context, itemID *big.Int) (*listingRecord, map[string]interface{}, error) {
	uri, l, err := h.listing(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if l.SaleCount == nil || !l.SaleCount.IsUint64() {
		return nil, nil, fmt.Errorf("%w: sale count of %q is out of range", domain.ErrDecode, uri)
	}

	state, err := h.bidding.Bidding(ctx, h.auction.Address(), uri, l.SaleCount.Uint64())
	if err != nil {
		return nil, nil, err
	}
	if state == nil {
		state = make(map[string]interface{})
	}
	return l, state, nil
}

func (h *URIHouse) Auction(ctx context.Context, itemID *big.Int) (*domain.Auction, error) {
	l, state, err := h.session(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// the session price is the floor until somebody bids
	state["startPrice"] = state["price"]
	state["saleCount"] = l.SaleCount

	record, err := h.registry.Migrate(contract.Auction, 1, 2, state)
	if err != nil {
		return nil, err
	}

	a := &domain.Auction{
		ItemID:     itemID,
		Owner:      l.Owner,
		StartPrice: bigField(record, "startPrice"),
		Increment:  bigField(record, "increment"),
		StartTime:  bigUnix(bigField(record, "startTime")),
		EndTime:    bigUnix(bigField(record, "endTime")),
		SaleCount:  bigField(record, "saleCount"),
	}
	a.Resulted, _ = record["resulted"].(bool)
	a.Winner, _ = record["topBidder"].(common.Address)
	return a, nil
}

func (h *URIHouse) TopBid(ctx context.Context, itemID *big.Int) (*domain.Bid, error) {
	_, state, err := h.session(ctx, itemID)
	if err != nil {
		return nil, err
	}

	winner, ok := state["winner"].(common.Address)
	if !ok || winner == (common.Address{}) {
		return &domain.Bid{}, nil
	}
	return &domain.Bid{Bidder: winner, Price: bigField(state, "price")}, nil
}

// Fees reads the sale tiers; the string-keyed contract does not expose its fee recipient
func (h *URIHouse) Fees(ctx context.Context) (*Fees, error) {
	first, err := h.callBig(ctx, "firstSaleFee")
	if err != nil {
		return nil, err
	}
	second, err := h.callBig(ctx, "secondSaleFee")
	if err != nil {
		return nil, err
	}
	return &Fees{FirstSale: first, SecondSale: second}, nil
}

func (h *URIHouse) IsAdmin(ctx context.Context, account common.Address) (bool, error) {
	values, err := h.auction.Call(ctx, "owner")
	if err != nil {
		return false, err
	}
	owner, err := contract.Address(values, 0)
	if err != nil {
		return false, err
	}
	return owner == account, nil
}

func (h *URIHouse) callBig(ctx context.Context, method string) (*big.Int, error) {
	values, err := h.auction.Call(ctx, method)
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

func bigField(state map[string]interface{}, key string) *big.Int {
	if v, ok := state[key].(*big.Int); ok && v != nil {
		return v
	}
	return new(big.Int)
}
