package staking

import (
	"math"
	"math/big"
	"time"

	"github.com/decibling/smart-contracts/internal/domain"
)

const (
	floatPrec   = 256
	daysPerYear = 365
)

// ExpectedProfit is principal * (e^(rate/100 * days/365) - 1) for a rate in
// percent per year compounded continuously over elapsed, in fractional days.
// The result is rounded down.
func ExpectedProfit(principal, rate *big.Int, elapsed time.Duration) *big.Int {
	if principal == nil || rate == nil || principal.Sign() <= 0 || rate.Sign() <= 0 || elapsed <= 0 {
		return new(big.Int)
	}

	r, _ := new(big.Float).SetInt(rate).Float64()
	days := elapsed.Hours() / 24
	growth := math.Expm1(r / 100 * days / daysPerYear)

	profit := new(big.Float).SetPrec(floatPrec).SetInt(principal)
	profit.Mul(profit, new(big.Float).SetPrec(floatPrec).SetFloat64(growth))

	out, _ := profit.Int(nil)
	return out
}

// ExpectedPayout selects the staker's rate r or the owner's rToOwner and
// accrues the stake from its deposit time to now
func ExpectedPayout(pool *domain.Pool, stake *domain.Stake, now time.Time, asOwnerShare bool) *big.Int {
	if pool == nil || stake == nil || stake.DepositTime.IsZero() {
		return new(big.Int)
	}
	rate := pool.R
	if asOwnerShare {
		rate = pool.RToOwner
	}
	return ExpectedProfit(stake.Amount, rate, now.Sub(stake.DepositTime))
}

// NetOfFee is what a claimant receives after the reserve keeps feePercent
func NetOfFee(amount, feePercent *big.Int) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return new(big.Int)
	}
	keep := big.NewInt(100)
	if feePercent != nil {
		keep.Sub(keep, feePercent)
	}
	if keep.Sign() <= 0 {
		return new(big.Int)
	}
	if keep.Cmp(big.NewInt(100)) > 0 {
		keep.SetInt64(100)
	}
	net := new(big.Int).Mul(amount, keep)
	return net.Quo(net, big.NewInt(100))
}
