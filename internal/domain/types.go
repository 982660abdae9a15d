package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainArbitrumOne     Chain = "eip155:42161"
	ChainArbitrumGoerli  Chain = "eip155:421613"
	ChainArbitrumSepolia Chain = "eip155:421614"
	ChainHardhat         Chain = "eip155:31337"
)

// IsValidChain checks if a chain is an eip155 chain with a numeric reference
func IsValidChain(chain Chain) bool {
	_, err := chain.ID()
	return err == nil
}

// ID returns the numeric chain id of an eip155 chain
func (c Chain) ID() (*big.Int, error) {
	parts := strings.SplitN(string(c), ":", 2)
	if len(parts) != 2 || parts[0] != "eip155" {
		return nil, fmt.Errorf("%w: chain %q is not an eip155 chain", ErrInvalidInput, c)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: chain %q has no numeric reference", ErrInvalidInput, c)
	}
	return new(big.Int).SetUint64(id), nil
}

// ChainFromID builds the CAIP-2 identifier of an eip155 chain
func ChainFromID(id *big.Int) Chain {
	return Chain("eip155:" + id.String())
}

// Account is the active signer address and its native balance
type Account struct {
	Address common.Address
	Balance *big.Int
}

// ItemStatus mirrors the contract's listing status enum
type ItemStatus uint8

const (
	ItemStatusUnset ItemStatus = iota
	ItemStatusOnAuction
	ItemStatusNotForSale
	ItemStatusSold
)

func (s ItemStatus) String() string {
	switch s {
	case ItemStatusUnset:
		return "unset"
	case ItemStatusOnAuction:
		return "on_auction"
	case ItemStatusNotForSale:
		return "not_for_sale"
	case ItemStatusSold:
		return "sold"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// Item is a minted listing
type Item struct {
	ID        *big.Int
	Owner     common.Address
	Name      string
	URI       string
	SaleCount *big.Int
	Status    ItemStatus
}

// Auction is the on-chain auction record keyed by item id
type Auction struct {
	ItemID     *big.Int
	Owner      common.Address
	StartPrice *big.Int
	Increment  *big.Int
	StartTime  time.Time
	EndTime    time.Time
	Resulted   bool
	Winner     common.Address
	SaleCount  *big.Int
}

// Exists reports whether createBidding was ever called for the item
func (a *Auction) Exists() bool {
	return a != nil && !a.EndTime.IsZero() && a.EndTime.Unix() != 0
}

// Active reports whether the auction is created and not yet resulted
func (a *Auction) Active() bool {
	return a.Exists() && !a.Resulted
}

// Bid is the top bid of an auction
type Bid struct {
	Bidder    common.Address
	Price     *big.Int
	Timestamp time.Time
}

// Empty reports whether no bid has been placed
func (b *Bid) Empty() bool {
	return b == nil || b.Bidder == (common.Address{}) || b.Price == nil || b.Price.Sign() == 0
}

// Pool is a staking pool keyed by id
type Pool struct {
	ID       string
	Owner    common.Address
	R        *big.Int
	RToOwner *big.Int
	HardCap  *big.Int
	Total    *big.Int
}

// Exists reports whether newPool was called for the id
func (p *Pool) Exists() bool {
	return p != nil && p.Owner != (common.Address{})
}

// Stake is a staker's position in a pool
type Stake struct {
	PoolID      string
	Staker      common.Address
	Amount      *big.Int
	DepositTime time.Time
}
