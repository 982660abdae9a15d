// Package staking sequences pool administration, stake and unstake, and
// profit claims against DeciblingStaking, and computes the continuously
// compounded accrual the contract is expected to pay.
package staking

import (
	"context"
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
	pools Pools
	token Token
}

func NewOrchestrator(chain Chain, pools Pools, token Token) *Orchestrator {
	return &Orchestrator{chain: chain, pools: pools, token: token}
}

// ClaimResult is a mined claim with the gross profit read just before it and the
// share the reserve keeps
type ClaimResult struct {
	Receipt *types.Receipt
	Gross   *big.Int
	Fee     *big.Int
	Net     *big.Int
}

func reject(sentinel error, format string, args ...interface{}) error {
	return domain.NewPrecheckError(sentinel, fmt.Sprintf(format, args...))
}

// NewPool creates poolID owned by the caller
func (o *Orchestrator) NewPool(ctx context.Context, proof [][32]byte, poolID string) (*types.Receipt, error) {
	if err := validPoolID(poolID); err != nil {
		return nil, err
	}

	pool, err := o.pools.Pool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if pool.Exists() {
		return nil, reject(domain.ErrPoolExists, "pool %q is owned by %s", poolID, pool.Owner.Hex())
	}

	receipt, err := o.pools.NewPool(ctx, proof, poolID)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Pool created",
		zap.String("poolID", poolID),
		logger.Address("owner", o.chain.Address()),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// UpdatePool overwrites the pool's staker rate r and owner rate rToOwner, both in percent
func (o *Orchestrator) UpdatePool(ctx context.Context, proof [][32]byte, poolID string, r, rToOwner *big.Int) (*types.Receipt, error) {
	if r == nil || rToOwner == nil || r.Sign() < 0 || rToOwner.Sign() < 0 {
		return nil, reject(domain.ErrInvalidInput, "rates must be non-negative")
	}
	if _, err := o.ownedPool(ctx, poolID); err != nil {
		return nil, err
	}

	receipt, err := o.pools.UpdatePool(ctx, proof, poolID, r, rToOwner)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Pool updated",
		zap.String("poolID", poolID),
		logger.BigInt("r", r),
		logger.BigInt("rToOwner", rToOwner),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// UpdatePoolOwner hands the pool to newOwner
func (o *Orchestrator) UpdatePoolOwner(ctx context.Context, proof [][32]byte, poolID string, newOwner common.Address) (*types.Receipt, error) {
	if newOwner == (common.Address{}) {
		return nil, reject(domain.ErrInvalidAddress, "new owner is the zero address")
	}
	if _, err := o.ownedPool(ctx, poolID); err != nil {
		return nil, err
	}

	receipt, err := o.pools.UpdatePoolOwner(ctx, proof, poolID, newOwner)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Pool owner updated",
		zap.String("poolID", poolID),
		logger.Address("owner", newOwner),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// SetDefaultPool creates the admin-owned default pool
func (o *Orchestrator) SetDefaultPool(ctx context.Context) (*types.Receipt, error) {
	caller := o.chain.Address()
	admin, err := o.pools.IsAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, reject(domain.ErrNotOwner, "%s is not the staking admin", caller.Hex())
	}

	pool, err := o.pools.Pool(ctx, domain.DEFAULT_POOL_ID)
	if err != nil {
		return nil, err
	}
	if pool.Exists() {
		return nil, reject(domain.ErrPoolExists, "pool %q", domain.DEFAULT_POOL_ID)
	}

	return o.pools.SetDefaultPool(ctx)
}

// Stake escrows amount into poolID, approving the staking contract first when
// the allowance is short. The contract restarts the accrual clock on every stake.
func (o *Orchestrator) Stake(ctx context.Context, poolID string, amount *big.Int) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reject(domain.ErrZeroAmount, "stake %v", amount)
	}

	pool, err := o.existingPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if pool.HardCap != nil && pool.HardCap.Sign() > 0 && pool.Total != nil {
		if total := new(big.Int).Add(pool.Total, amount); total.Cmp(pool.HardCap) > 0 {
			return nil, reject(domain.ErrHardCapExceeded, "pool %q would hold %s of %s", poolID, total, pool.HardCap)
		}
	}

	caller := o.chain.Address()
	escrow := o.pools.Escrow()
	allowance, err := o.token.Allowance(ctx, caller, escrow)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amount) < 0 {
		if _, err := o.token.Approve(ctx, escrow, amount); err != nil {
			return nil, fmt.Errorf("approve stake escrow: %w", err)
		}
	}

	receipt, err := o.pools.Stake(ctx, poolID, amount)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Staked",
		zap.String("poolID", poolID),
		logger.Address("staker", caller),
		logger.BigInt("amount", amount),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// Unstake returns amount of principal to the caller without claiming profit
func (o *Orchestrator) Unstake(ctx context.Context, poolID string, amount *big.Int) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reject(domain.ErrZeroAmount, "unstake %v", amount)
	}
	if _, err := o.existingPool(ctx, poolID); err != nil {
		return nil, err
	}

	caller := o.chain.Address()
	stake, err := o.pools.Staker(ctx, poolID, caller)
	if err != nil {
		return nil, err
	}
	if stake.Amount == nil || stake.Amount.Cmp(amount) < 0 {
		return nil, reject(domain.ErrInsufficientStake, "unstake %s, staked %v", amount, stake.Amount)
	}

	receipt, err := o.pools.Unstake(ctx, poolID, amount)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Unstaked",
		zap.String("poolID", poolID),
		logger.Address("staker", caller),
		logger.BigInt("amount", amount),
		logger.TxHash(receipt.TxHash))

	return receipt, nil
}

// Payout reads the unclaimed profit the contract owes staker; asOwnerShare
// selects the pool owner's cut of that stake
func (o *Orchestrator) Payout(ctx context.Context, poolID string, staker common.Address, asOwnerShare bool) (*big.Int, error) {
	if err := validPoolID(poolID); err != nil {
		return nil, err
	}
	return o.pools.Payout(ctx, poolID, staker, asOwnerShare)
}

// ExpectedPayout computes the accrual client-side at the chain head time
func (o *Orchestrator) ExpectedPayout(ctx context.Context, poolID string, staker common.Address, asOwnerShare bool) (*big.Int, error) {
	pool, err := o.existingPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	stake, err := o.pools.Staker(ctx, poolID, staker)
	if err != nil {
		return nil, err
	}
	now, err := o.chain.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	return ExpectedPayout(pool, stake, now, asOwnerShare), nil
}

// Claim pays the caller's profit net of the reserve fee
func (o *Orchestrator) Claim(ctx context.Context, poolID string) (*ClaimResult, error) {
	if _, err := o.existingPool(ctx, poolID); err != nil {
		return nil, err
	}

	caller := o.chain.Address()
	gross, err := o.pools.Payout(ctx, poolID, caller, false)
	if err != nil {
		return nil, err
	}

	result, err := o.claimResult(ctx, gross)
	if err != nil {
		return nil, err
	}

	result.Receipt, err = o.pools.Claim(ctx, poolID)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Profit claimed",
		zap.String("poolID", poolID),
		logger.Address("staker", caller),
		logger.BigInt("gross", result.Gross),
		logger.BigInt("net", result.Net),
		logger.TxHash(result.Receipt.TxHash))

	return result, nil
}

// ClaimForPoolProfit pays the pool owner's share across stakers in one call
func (o *Orchestrator) ClaimForPoolProfit(ctx context.Context, poolID string, stakers []common.Address) (*ClaimResult, error) {
	if len(stakers) == 0 {
		return nil, reject(domain.ErrInvalidInput, "no stakers given")
	}
	for _, s := range stakers {
		if s == (common.Address{}) {
			return nil, reject(domain.ErrInvalidAddress, "zero staker address")
		}
	}

	pool, err := o.existingPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	caller := o.chain.Address()
	if pool.Owner != caller {
		return nil, reject(domain.ErrNotOwner, "pool %q is owned by %s", poolID, pool.Owner.Hex())
	}

	gross := new(big.Int)
	for _, s := range stakers {
		share, err := o.pools.Payout(ctx, poolID, s, true)
		if err != nil {
			return nil, err
		}
		gross.Add(gross, share)
	}

	result, err := o.claimResult(ctx, gross)
	if err != nil {
		return nil, err
	}

	result.Receipt, err = o.pools.ClaimForPoolProfit(ctx, poolID, stakers)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Pool profit claimed",
		zap.String("poolID", poolID),
		zap.Int("stakers", len(stakers)),
		logger.BigInt("gross", result.Gross),
		logger.BigInt("net", result.Net),
		logger.TxHash(result.Receipt.TxHash))

	return result, nil
}

func (o *Orchestrator) claimResult(ctx context.Context, gross *big.Int) (*ClaimResult, error) {
	fee, err := o.pools.PayoutFee(ctx)
	if err != nil {
		return nil, err
	}
	net := NetOfFee(gross, fee)
	return &ClaimResult{Gross: gross, Fee: new(big.Int).Sub(gross, net), Net: net}, nil
}

func validPoolID(poolID string) error {
	if strings.TrimSpace(poolID) == "" {
		return reject(domain.ErrInvalidInput, "pool id is empty")
	}
	return nil
}

func (o *Orchestrator) existingPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	if err := validPoolID(poolID); err != nil {
		return nil, err
	}
	pool, err := o.pools.Pool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if !pool.Exists() {
		return nil, reject(domain.ErrPoolNotFound, "pool %q", poolID)
	}
	return pool, nil
}

// ownedPool returns the pool when the caller owns it or is the staking admin
func (o *Orchestrator) ownedPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	pool, err := o.existingPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	caller := o.chain.Address()
	if pool.Owner == caller {
		return pool, nil
	}
	admin, err := o.pools.IsAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, reject(domain.ErrNotOwner, "pool %q is owned by %s", poolID, pool.Owner.Hex())
	}
	return pool, nil
}
