package faucet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
)

// Chain is the part of chain.Client the on-chain faucet reads the caller and head time from
type Chain interface {
	Address() common.Address
	BlockTime(ctx context.Context) (time.Time, error)
}

// ContractFaucet drives the DeciblingFaucet contract, which releases tokens to
// its caller at most once per waitTime
type ContractFaucet struct {
	faucet *contract.Contract
	chain  Chain
}

func NewContractFaucet(faucet *contract.Contract, chain Chain) *ContractFaucet {
	return &ContractFaucet{faucet: faucet, chain: chain}
}

// Eligibility tells when an account may request next
type Eligibility struct {
	Account     common.Address `json:"account"`
	LastRequest time.Time      `json:"lastRequest"`
	WaitTime    time.Duration  `json:"waitTime"`
	NextRequest time.Time      `json:"nextRequest"`
	Ready       bool           `json:"ready"`
}

// Grant is a mined faucet request
type Grant struct {
	Receipt *types.Receipt
	Account common.Address
	// Amount is nil when the receipt carries no Requested event
	Amount *big.Int
}

func (f *ContractFaucet) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := f.faucet.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return contract.BigInt(values, 0)
}

// Eligibility reads the account's last request and the contract's wait time against chain time
func (f *ContractFaucet) Eligibility(ctx context.Context, account common.Address) (*Eligibility, error) {
	last, err := f.callBig(ctx, "faucets", account)
	if err != nil {
		return nil, err
	}
	wait, err := f.callBig(ctx, "waitTime")
	if err != nil {
		return nil, err
	}
	if !last.IsInt64() || !wait.IsInt64() {
		return nil, fmt.Errorf("%w: faucet times out of range", domain.ErrDecode)
	}

	now, err := f.chain.BlockTime(ctx)
	if err != nil {
		return nil, err
	}

	e := &Eligibility{
		Account:  account,
		WaitTime: time.Duration(wait.Int64()) * time.Second,
		Ready:    true,
	}
	if last.Sign() > 0 {
		e.LastRequest = time.Unix(last.Int64(), 0)
		e.NextRequest = e.LastRequest.Add(e.WaitTime)
		e.Ready = !now.Before(e.NextRequest)
	}
	return e, nil
}

// Request asks the faucet for the caller's grant. Inside the wait window it
// fails with domain.ErrRateLimited before sending anything.
func (f *ContractFaucet) Request(ctx context.Context) (*Grant, error) {
	caller := f.chain.Address()

	e, err := f.Eligibility(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !e.Ready {
		return nil, domain.NewPrecheckError(domain.ErrRateLimited,
			fmt.Sprintf("%s may request again at %d", caller.Hex(), e.NextRequest.Unix()))
	}

	receipt, err := f.faucet.Transact(ctx, "request", nil)
	if err != nil {
		return nil, err
	}

	grant := &Grant{Receipt: receipt, Account: caller}
	requested, err := f.faucet.Events(receipt, "Requested")
	if err != nil {
		return nil, err
	}
	if len(requested) > 0 {
		grant.Amount, _ = requested[0].Args["amount"].(*big.Int)
	}

	logger.InfoCtx(ctx, "Faucet request mined",
		logger.Address("account", caller),
		logger.BigInt("amount", grant.Amount),
		zap.Duration("waitTime", e.WaitTime),
		logger.TxHash(receipt.TxHash))

	return grant, nil
}
