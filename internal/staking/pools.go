package staking

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
)

// Pools is the typed surface of DeciblingStaking and DeciblingReserve
//
//go:generate mockgen -source=pools.go -destination=../mocks/staking.go -package=mocks -mock_names=Pools=MockPools
type Pools interface {
	// Escrow returns the staking contract address, the spender for stakes
	Escrow() common.Address

	NewPool(ctx context.Context, proof [][32]byte, poolID string) (*types.Receipt, error)
	UpdatePool(ctx context.Context, proof [][32]byte, poolID string, r, rToOwner *big.Int) (*types.Receipt, error)
	UpdatePoolOwner(ctx context.Context, proof [][32]byte, poolID string, newOwner common.Address) (*types.Receipt, error)
	SetDefaultPool(ctx context.Context) (*types.Receipt, error)

	Stake(ctx context.Context, poolID string, amount *big.Int) (*types.Receipt, error)
	Unstake(ctx context.Context, poolID string, amount *big.Int) (*types.Receipt, error)
	Claim(ctx context.Context, poolID string) (*types.Receipt, error)
	ClaimForPoolProfit(ctx context.Context, poolID string, stakers []common.Address) (*types.Receipt, error)

	// Pool returns the pool record; an unused id has a zero owner
	Pool(ctx context.Context, poolID string) (*domain.Pool, error)

	// Staker returns the staker's position; zero amount when they never staked
	Staker(ctx context.Context, poolID string, staker common.Address) (*domain.Stake, error)

	// Payout returns the unclaimed profit the contract computes for a staker
	Payout(ctx context.Context, poolID string, staker common.Address, asOwnerShare bool) (*big.Int, error)

	// PayoutFee returns the reserve's fee in percent
	PayoutFee(ctx context.Context) (*big.Int, error)

	// IsAdmin reports whether account owns the staking contract
	IsAdmin(ctx context.Context, account common.Address) (bool, error)
}

// Token is the ERC20 that is staked
type Token interface {
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error)
}

// ContractPools implements Pools over the staking and reserve bindings
type ContractPools struct {
	staking *contract.Contract
	reserve *contract.Contract
}

func NewContractPools(staking, reserve *contract.Contract) *ContractPools {
	return &ContractPools{staking: staking, reserve: reserve}
}

func (p *ContractPools) Escrow() common.Address {
	return p.staking.Address()
}

func emptyProof(proof [][32]byte) [][32]byte {
	if proof == nil {
		return [][32]byte{}
	}
	return proof
}

func (p *ContractPools) NewPool(ctx context.Context, proof [][32]byte, poolID string) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "newPool", nil, emptyProof(proof), poolID)
}

func (p *ContractPools) UpdatePool(ctx context.Context, proof [][32]byte, poolID string, r, rToOwner *big.Int) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "updatePool", nil, emptyProof(proof), poolID, r, rToOwner)
}

func (p *ContractPools) UpdatePoolOwner(ctx context.Context, proof [][32]byte, poolID string, newOwner common.Address) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "updatePoolOwner", nil, emptyProof(proof), poolID, newOwner)
}

func (p *ContractPools) SetDefaultPool(ctx context.Context) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "setDefaultPool", nil)
}

func (p *ContractPools) Stake(ctx context.Context, poolID string, amount *big.Int) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "stake", nil, poolID, amount)
}

func (p *ContractPools) Unstake(ctx context.Context, poolID string, amount *big.Int) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "unstake", nil, poolID, amount)
}

func (p *ContractPools) Claim(ctx context.Context, poolID string) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "claim", nil, poolID)
}

func (p *ContractPools) ClaimForPoolProfit(ctx context.Context, poolID string, stakers []common.Address) (*types.Receipt, error) {
	return p.staking.Transact(ctx, "claimForPoolProfit", nil, poolID, stakers)
}

type poolRecord struct {
	Owner    common.Address
	R        *big.Int
	RToOwner *big.Int
	HardCap  *big.Int
	Total    *big.Int
}

func (p *ContractPools) Pool(ctx context.Context, poolID string) (*domain.Pool, error) {
	var r poolRecord
	if err := p.staking.CallInto(ctx, &r, "pools", poolID); err != nil {
		return nil, err
	}
	return &domain.Pool{
		ID:       poolID,
		Owner:    r.Owner,
		R:        r.R,
		RToOwner: r.RToOwner,
		HardCap:  r.HardCap,
		Total:    r.Total,
	}, nil
}

type stakerRecord struct {
	Amount      *big.Int
	DepositTime *big.Int
}

func (p *ContractPools) Staker(ctx context.Context, poolID string, staker common.Address) (*domain.Stake, error) {
	var r stakerRecord
	if err := p.staking.CallInto(ctx, &r, "stakers", poolID, staker); err != nil {
		return nil, err
	}

	stake := &domain.Stake{PoolID: poolID, Staker: staker, Amount: r.Amount}
	if r.DepositTime != nil && r.DepositTime.IsInt64() && r.DepositTime.Sign() > 0 {
		stake.DepositTime = time.Unix(r.DepositTime.Int64(), 0)
	}
	return stake, nil
}

func (p *ContractPools) Payout(ctx context.Context, poolID string, staker common.Address, asOwnerShare bool) (*big.Int, error) {
	values, err := p.staking.Call(ctx, "payout", poolID, staker, asOwnerShare)
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

func (p *ContractPools) PayoutFee(ctx context.Context) (*big.Int, error) {
	values, err := p.reserve.Call(ctx, "payoutFee")
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

func (p *ContractPools) IsAdmin(ctx context.Context, account common.Address) (bool, error) {
	values, err := p.staking.Call(ctx, "owner")
	if err != nil {
		return false, err
	}
	owner, err := contract.Address(values, 0)
	if err != nil {
		return false, err
	}
	return owner == account, nil
}
