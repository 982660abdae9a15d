package auction

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
)

// House is the typed surface of the NFT and auction contracts
//
//go:generate mockgen -source=house.go -destination=../mocks/auction.go -package=mocks -mock_names=House=MockHouse,Token=MockToken
type House interface {
	// Escrow returns the auction contract address, the spender for bids and item approvals
	Escrow() common.Address

	// Mint creates an item for the caller and returns its id
	Mint(ctx context.Context, proof [][32]byte, uri, name string) (*big.Int, *types.Receipt, error)

	// OwnerOf returns the current holder of an item
	OwnerOf(ctx context.Context, itemID *big.Int) (common.Address, error)

	// Item returns the item's metadata; SaleCount and Status are filled from its auction
	Item(ctx context.Context, itemID *big.Int) (*domain.Item, error)

	// Approved returns the address approved to transfer an item
	Approved(ctx context.Context, itemID *big.Int) (common.Address, error)

	// ApproveItem lets the auction contract take custody of an item
	ApproveItem(ctx context.Context, itemID *big.Int) (*types.Receipt, error)

	CreateBidding(ctx context.Context, req BiddingRequest) (*types.Receipt, error)
	Bid(ctx context.Context, itemID, price *big.Int) (*types.Receipt, error)
	UpdateBidEndTime(ctx context.Context, itemID *big.Int, endTime time.Time) (*types.Receipt, error)
	SettleBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error)
	CancelBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error)

	// Auction returns the auction record; an item never auctioned has a zero record
	Auction(ctx context.Context, itemID *big.Int) (*domain.Auction, error)

	// TopBid returns the current top bid; Empty() when nobody has bid
	TopBid(ctx context.Context, itemID *big.Int) (*domain.Bid, error)

	// Fees returns the sale fee tiers and their recipient
	Fees(ctx context.Context) (*Fees, error)

	// IsAdmin reports whether account owns the auction contract
	IsAdmin(ctx context.Context, account common.Address) (bool, error)
}

// Token is the ERC20 used for bids
type Token interface {
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// BiddingRequest opens an auction for an item
type BiddingRequest struct {
	ItemID     *big.Int
	StartPrice *big.Int
	Increment  *big.Int
	StartTime  time.Time
	EndTime    time.Time
}

// ContractHouse implements House over DeciblingNFT and DeciblingAuctionV2
type ContractHouse struct {
	nft     *contract.Contract
	auction *contract.Contract
}

func NewContractHouse(nft, auction *contract.Contract) *ContractHouse {
	return &ContractHouse{nft: nft, auction: auction}
}

func (h *ContractHouse) Escrow() common.Address {
	return h.auction.Address()
}

func (h *ContractHouse) Mint(ctx context.Context, proof [][32]byte, uri, name string) (*big.Int, *types.Receipt, error) {
	if proof == nil {
		proof = [][32]byte{}
	}
	receipt, err := h.nft.Transact(ctx, "mint", nil, proof, uri, name)
	if err != nil {
		return nil, receipt, err
	}

	minted, err := h.nft.Events(receipt, "Minted")
	if err != nil {
		return nil, receipt, err
	}
	if len(minted) == 0 {
		return nil, receipt, fmt.Errorf("%w: mint receipt %s has no Minted event", domain.ErrDecode, receipt.TxHash.Hex())
	}

	id, ok := minted[0].Args["tokenId"].(*big.Int)
	if !ok {
		return nil, receipt, fmt.Errorf("%w: Minted.tokenId is %T", domain.ErrDecode, minted[0].Args["tokenId"])
	}
	return id, receipt, nil
}

func (h *ContractHouse) OwnerOf(ctx context.Context, itemID *big.Int) (common.Address, error) {
	values, err := h.nft.Call(ctx, "ownerOf", itemID)
	if err != nil {
		if contract.IsRevert(err) {
			return common.Address{}, fmt.Errorf("%w: item %s: %v", domain.ErrItemNotFound, itemID, err)
		}
		return common.Address{}, err
	}
	return contract.Address(values, 0)
}

func (h *ContractHouse) Item(ctx context.Context, itemID *big.Int) (*domain.Item, error) {
	owner, err := h.OwnerOf(ctx, itemID)
	if err != nil {
		return nil, err
	}

	values, err := h.nft.Call(ctx, "nftInfos", itemID)
	if err != nil {
		return nil, err
	}
	name, err := contract.String(values, 0)
	if err != nil {
		return nil, err
	}

	values, err = h.nft.Call(ctx, "tokenURI", itemID)
	if err != nil {
		return nil, err
	}
	uri, err := contract.String(values, 0)
	if err != nil {
		return nil, err
	}

	a, err := h.Auction(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:        itemID,
		Owner:     owner,
		Name:      name,
		URI:       uri,
		SaleCount: a.SaleCount,
		Status:    domain.ItemStatusNotForSale,
	}
	if a.Active() {
		item.Status = domain.ItemStatusOnAuction
		item.Owner = a.Owner
	} else if a.SaleCount.Sign() > 0 {
		item.Status = domain.ItemStatusSold
	}
	return item, nil
}

func (h *ContractHouse) Approved(ctx context.Context, itemID *big.Int) (common.Address, error) {
	values, err := h.nft.Call(ctx, "getApproved", itemID)
	if err != nil {
		return common.Address{}, err
	}
	return contract.Address(values, 0)
}

func (h *ContractHouse) ApproveItem(ctx context.Context, itemID *big.Int) (*types.Receipt, error) {
	return h.nft.Transact(ctx, "approve", nil, h.auction.Address(), itemID)
}

func (h *ContractHouse) CreateBidding(ctx context.Context, req BiddingRequest) (*types.Receipt, error) {
	return h.auction.Transact(ctx, "createBidding", nil,
		req.ItemID, req.StartPrice, req.Increment, unixBig(req.StartTime), unixBig(req.EndTime))
}

func (h *ContractHouse) Bid(ctx context.Context, itemID, price *big.Int) (*types.Receipt, error) {
	return h.auction.Transact(ctx, "bid", nil, itemID, price)
}

func (h *ContractHouse) UpdateBidEndTime(ctx context.Context, itemID *big.Int, endTime time.Time) (*types.Receipt, error) {
	return h.auction.Transact(ctx, "updateBidEndTime", nil, itemID, unixBig(endTime))
}

func (h *ContractHouse) SettleBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error) {
	return h.auction.Transact(ctx, "settleBid", nil, itemID)
}

func (h *ContractHouse) CancelBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error) {
	return h.auction.Transact(ctx, "cancelBid", nil, itemID)
}

type auctionRecord struct {
	Owner      common.Address
	StartPrice *big.Int
	Increment  *big.Int
	StartTime  *big.Int
	EndTime    *big.Int
	Resulted   bool
	SaleCount  *big.Int
}

func (h *ContractHouse) Auction(ctx context.Context, itemID *big.Int) (*domain.Auction, error) {
	var r auctionRecord
	if err := h.auction.CallInto(ctx, &r, "auctions", itemID); err != nil {
		return nil, err
	}
	return &domain.Auction{
		ItemID:     itemID,
		Owner:      r.Owner,
		StartPrice: r.StartPrice,
		Increment:  r.Increment,
		StartTime:  bigUnix(r.StartTime),
		EndTime:    bigUnix(r.EndTime),
		Resulted:   r.Resulted,
		SaleCount:  r.SaleCount,
	}, nil
}

type bidRecord struct {
	User      common.Address
	Price     *big.Int
	Timestamp *big.Int
}

func (h *ContractHouse) TopBid(ctx context.Context, itemID *big.Int) (*domain.Bid, error) {
	var r bidRecord
	if err := h.auction.CallInto(ctx, &r, "topBids", itemID); err != nil {
		return nil, err
	}
	return &domain.Bid{Bidder: r.User, Price: r.Price, Timestamp: bigUnix(r.Timestamp)}, nil
}

func (h *ContractHouse) Fees(ctx context.Context) (*Fees, error) {
	first, err := h.callBig(ctx, "firstSaleFee")
	if err != nil {
		return nil, err
	}
	second, err := h.callBig(ctx, "secondSaleFee")
	if err != nil {
		return nil, err
	}

	values, err := h.auction.Call(ctx, "platformFeeRecipient")
	if err != nil {
		return nil, err
	}
	recipient, err := contract.Address(values, 0)
	if err != nil {
		return nil, err
	}

	return &Fees{FirstSale: first, SecondSale: second, Recipient: recipient}, nil
}

func (h *ContractHouse) IsAdmin(ctx context.Context, account common.Address) (bool, error) {
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

func (h *ContractHouse) callBig(ctx context.Context, method string) (*big.Int, error) {
	values, err := h.auction.Call(ctx, method)
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

// ContractToken implements Token over an ERC20 binding
type ContractToken struct {
	erc20 *contract.Contract
}

func NewContractToken(erc20 *contract.Contract) *ContractToken {
	return &ContractToken{erc20: erc20}
}

func (t *ContractToken) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	values, err := t.erc20.Call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

func (t *ContractToken) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.erc20.Transact(ctx, "approve", nil, spender, amount)
}

func (t *ContractToken) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	values, err := t.erc20.Call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

// Transfer sends amount to recipient; used by the faucet grant
func (t *ContractToken) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.erc20.Transact(ctx, "transfer", nil, to, amount)
}

func unixBig(t time.Time) *big.Int {
	return big.NewInt(t.Unix())
}

func bigUnix(v *big.Int) time.Time {
	if v == nil || !v.IsInt64() {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0)
}
