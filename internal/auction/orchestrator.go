// Package auction sequences the NFT auction workflow: mint, open an auction,
// bid, and settle or cancel. Every write is preceded by checks against fresh
// on-chain state so that a doomed transaction fails before it costs gas; the
// contract's revert stays authoritative and is returned unmodified.
package auction

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
)

// Chain is the part of chain.Client the orchestrator reads the caller and head time from
type Chain interface {
	Address() common.Address
	BlockTime(ctx context.Context) (time.Time, error)
}

type Orchestrator struct {
	chain Chain
	house House
	token Token
}

func NewOrchestrator(chain Chain, house House, token Token) *Orchestrator {
	return &Orchestrator{chain: chain, house: house, token: token}
}

// SettleResult is a mined settlement together with the distribution it implies
type SettleResult struct {
	Receipt    *types.Receipt
	Winner     common.Address
	Settlement *Settlement
}

// Snapshot is the derived view of an item and its current auction
type Snapshot struct {
	Phase      Phase
	Owner      common.Address
	Auction    *domain.Auction
	TopBid     *domain.Bid
	MinimumBid *big.Int
	// CanOpenAuction tells whether createBidding is allowed from Phase
	CanOpenAuction bool
}

func reject(sentinel error, format string, args ...interface{}) error {
	return domain.NewPrecheckError(sentinel, fmt.Sprintf(format, args...))
}

// CreateNFT mints an item named name at uri for the caller and returns its id
func (o *Orchestrator) CreateNFT(ctx context.Context, uri, name string, proof [][32]byte) (*big.Int, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, reject(domain.ErrInvalidInput, "uri is empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, reject(domain.ErrInvalidInput, "name is empty")
	}

	itemID, receipt, err := o.house.Mint(ctx, proof, uri, name)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Item minted",
		logger.BigInt("itemID", itemID),
		zap.String("uri", uri),
		logger.Address("owner", o.chain.Address()),
		logger.TxHash(receipt.TxHash))

	return itemID, nil
}

// CreateBidding opens an auction on an item the caller holds, approving the
// auction contract to take custody of it first when needed
func (o *Orchestrator) CreateBidding(ctx context.Context, req BiddingRequest) (*types.Receipt, error) {
	if req.ItemID == nil || req.StartPrice == nil || req.StartPrice.Sign() < 0 {
		return nil, reject(domain.ErrInvalidInput, "item id and a non-negative start price are required")
	}
	if req.Increment == nil {
		req.Increment = new(big.Int)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, reject(domain.ErrInvalidTimeRange, "end %d must be after start %d", req.EndTime.Unix(), req.StartTime.Unix())
	}

	now, err := o.chain.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	if !req.EndTime.After(now) {
		return nil, reject(domain.ErrInvalidTimeRange, "end %d is not after chain time %d", req.EndTime.Unix(), now.Unix())
	}

	a, err := o.house.Auction(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if a.Active() {
		return nil, reject(domain.ErrAlreadyOnAuction, "item %s", req.ItemID)
	}

	caller := o.chain.Address()
	owner, err := o.house.OwnerOf(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if owner != caller {
		return nil, reject(domain.ErrNotOwner, "item %s is held by %s", req.ItemID, owner.Hex())
	}

	approved, err := o.house.Approved(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if approved != o.house.Escrow() {
		if _, err := o.house.ApproveItem(ctx, req.ItemID); err != nil {
			return nil, fmt.Errorf("approve item %s: %w", req.ItemID, err)
		}
	}

	receipt, err := o.house.CreateBidding(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Auction created",
		logger.BigInt("itemID", req.ItemID),
		logger.BigInt("startPrice", req.StartPrice),
		zap.Time("startTime", req.StartTime),
		zap.Time("endTime", req.EndTime),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// MinimumBid is the smallest amount the client lets through: the start price
// while nobody has bid, afterwards anything above the top bid. Whether the
// increment applies on top of that is left to the contract.
func MinimumBid(a *domain.Auction, top *domain.Bid) *big.Int {
	if top.Empty() {
		return new(big.Int).Set(a.StartPrice)
	}
	return new(big.Int).Add(top.Price, big.NewInt(1))
}

// Bid places amount on an open auction, approving the escrow first when the
// caller's allowance is short. A bid is never retried: after a revert the top
// bid may have moved.
func (o *Orchestrator) Bid(ctx context.Context, itemID, amount *big.Int) (*types.Receipt, error) {
	if itemID == nil || amount == nil || amount.Sign() <= 0 {
		return nil, reject(domain.ErrInvalidInput, "item id and a positive amount are required")
	}

	a, err := o.openAuction(ctx, itemID)
	if err != nil {
		return nil, err
	}

	caller := o.chain.Address()
	if caller == a.Owner {
		return nil, reject(domain.ErrSelfBid, "item %s", itemID)
	}

	now, err := o.chain.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	if now.Before(a.StartTime) {
		return nil, reject(domain.ErrAuctionNotStarted, "starts at %d, chain time %d", a.StartTime.Unix(), now.Unix())
	}
	if !now.Before(a.EndTime) {
		return nil, reject(domain.ErrAuctionEnded, "ended at %d, chain time %d", a.EndTime.Unix(), now.Unix())
	}

	top, err := o.house.TopBid(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if minimum := MinimumBid(a, top); amount.Cmp(minimum) < 0 {
		return nil, reject(domain.ErrBidTooLow, "bid %s, minimum %s", amount, minimum)
	}

	escrow := o.house.Escrow()
	allowance, err := o.token.Allowance(ctx, caller, escrow)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amount) < 0 {
		if _, err := o.token.Approve(ctx, escrow, amount); err != nil {
			return nil, fmt.Errorf("approve bid escrow: %w", err)
		}
	}

	receipt, err := o.house.Bid(ctx, itemID, amount)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Bid placed",
		logger.BigInt("itemID", itemID),
		logger.Address("bidder", caller),
		logger.BigInt("amount", amount),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// UpdateBidEndtime moves the end of an open auction; owner or admin only
func (o *Orchestrator) UpdateBidEndtime(ctx context.Context, itemID *big.Int, endTime time.Time) (*types.Receipt, error) {
	if itemID == nil {
		return nil, reject(domain.ErrInvalidInput, "item id is required")
	}

	a, err := o.openAuction(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := o.requireOwnerOrAdmin(ctx, a.Owner); err != nil {
		return nil, err
	}
	if !endTime.After(a.StartTime) {
		return nil, reject(domain.ErrInvalidTimeRange, "end %d must be after start %d", endTime.Unix(), a.StartTime.Unix())
	}

	receipt, err := o.house.UpdateBidEndTime(ctx, itemID, endTime)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Auction end time updated",
		logger.BigInt("itemID", itemID),
		zap.Time("endTime", endTime),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// SettleBid finalizes an ended auction that has a winner
func (o *Orchestrator) SettleBid(ctx context.Context, itemID *big.Int) (*SettleResult, error) {
	if itemID == nil {
		return nil, reject(domain.ErrInvalidInput, "item id is required")
	}

	a, err := o.house.Auction(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !a.Exists() {
		return nil, reject(domain.ErrAuctionNotFound, "item %s", itemID)
	}
	if a.Resulted {
		return nil, reject(domain.ErrAuctionNotSettling, "item %s already resulted", itemID)
	}

	now, err := o.chain.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	if now.Before(a.EndTime) {
		return nil, reject(domain.ErrAuctionNotEnded, "ends at %d, chain time %d", a.EndTime.Unix(), now.Unix())
	}

	top, err := o.house.TopBid(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if top.Empty() {
		return nil, reject(domain.ErrNoWinner, "item %s has no bids, cancel instead", itemID)
	}

	fees, err := o.house.Fees(ctx)
	if err != nil {
		return nil, err
	}
	settlement := ComputeSettlement(top.Price, a.SaleCount, fees)

	receipt, err := o.house.SettleBid(ctx, itemID)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Auction settled",
		logger.BigInt("itemID", itemID),
		logger.Address("winner", top.Bidder),
		logger.BigInt("price", settlement.Price),
		logger.BigInt("fee", settlement.Fee),
		logger.TxHash(receipt.TxHash))

	return &SettleResult{Receipt: receipt, Winner: top.Bidder, Settlement: settlement}, nil
}

// SettleBiddingSession is the string-keyed contract's name for SettleBid
func (o *Orchestrator) SettleBiddingSession(ctx context.Context, itemID *big.Int) (*SettleResult, error) {
	return o.SettleBid(ctx, itemID)
}

// CancelBid closes an auction without a sale. It is allowed while nobody has
// bid, or once the auction has ended; the item stays with its owner.
func (o *Orchestrator) CancelBid(ctx context.Context, itemID *big.Int) (*types.Receipt, error) {
	if itemID == nil {
		return nil, reject(domain.ErrInvalidInput, "item id is required")
	}

	a, err := o.openAuction(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if caller := o.chain.Address(); caller != a.Owner {
		return nil, reject(domain.ErrNotOwner, "item %s is auctioned by %s", itemID, a.Owner.Hex())
	}

	top, err := o.house.TopBid(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !top.Empty() {
		now, err := o.chain.BlockTime(ctx)
		if err != nil {
			return nil, err
		}
		if now.Before(a.EndTime) {
			return nil, reject(domain.ErrAuctionNotEnded, "item %s has bids until %d", itemID, a.EndTime.Unix())
		}
	}

	receipt, err := o.house.CancelBid(ctx, itemID)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Auction cancelled",
		logger.BigInt("itemID", itemID),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// Phase derives where an item is in its lifecycle from on-chain records
func (o *Orchestrator) Phase(ctx context.Context, itemID *big.Int) (Phase, error) {
	s, err := o.Snapshot(ctx, itemID)
	if err != nil {
		return "", err
	}
	return s.Phase, nil
}

// Snapshot reads the item's owner, auction and top bid
func (o *Orchestrator) Snapshot(ctx context.Context, itemID *big.Int) (*Snapshot, error) {
	owner, err := o.house.OwnerOf(ctx, itemID)
	if errors.Is(err, domain.ErrItemNotFound) {
		return &Snapshot{Phase: PhaseUnlisted}, nil
	}
	if err != nil {
		return nil, err
	}

	a, err := o.house.Auction(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{Phase: PhaseListed, Owner: owner, Auction: a}
	if !a.Exists() {
		s.CanOpenAuction = s.Phase.CanOpenAuction()
		return s, nil
	}

	top, err := o.house.TopBid(ctx, itemID)
	if err != nil {
		return nil, err
	}
	s.TopBid = top

	switch {
	case a.Active():
		s.Phase = PhaseOnAuction
		s.Owner = a.Owner
		s.MinimumBid = MinimumBid(a, top)
	case !top.Empty() && owner == top.Bidder:
		s.Phase = PhaseSettled
	default:
		s.Phase = PhaseCancelled
	}
	s.CanOpenAuction = s.Phase.CanOpenAuction()
	return s, nil
}

func (o *Orchestrator) openAuction(ctx context.Context, itemID *big.Int) (*domain.Auction, error) {
	a, err := o.house.Auction(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !a.Exists() {
		return nil, reject(domain.ErrAuctionNotFound, "item %s", itemID)
	}
	if a.Resulted {
		return nil, reject(domain.ErrAuctionEnded, "item %s already resulted", itemID)
	}
	return a, nil
}

func (o *Orchestrator) requireOwnerOrAdmin(ctx context.Context, owner common.Address) error {
	caller := o.chain.Address()
	if caller == owner {
		return nil
	}
	admin, err := o.house.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !admin {
		return reject(domain.ErrNotOwner, "%s is neither owner nor admin", caller.Hex())
	}
	return nil
}
