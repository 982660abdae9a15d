package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrConnection is returned when no provider or signer is available
	ErrConnection = errors.New("connection error")

	// ErrRPC is returned when a JSON-RPC round-trip fails at the transport level
	ErrRPC = errors.New("rpc error")

	// ErrDecode is returned when return data or logs don't match the bound ABI
	ErrDecode = errors.New("decode error")

	// ErrTransactionReverted is matched by every *RevertError
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrRateLimited is returned when a faucet grant is requested inside the cooldown window
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidInput is returned when arguments are rejected before submission
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotOwner is returned when the caller doesn't own the item or pool
	ErrNotOwner = errors.New("not owner")

	// ErrInvalidAddress is returned for malformed or zero addresses
	ErrInvalidAddress = errors.New("invalid address")

	// ErrSubscriptionClosed is returned by a stream after Close
	ErrSubscriptionClosed = errors.New("subscription closed")
)

// Auction errors
var (
	ErrItemExists         = errors.New("item already exists")
	ErrItemNotFound       = errors.New("item not found")
	ErrAlreadyOnAuction   = errors.New("item already on auction")
	ErrAuctionNotFound    = errors.New("auction not found")
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrSelfBid            = errors.New("owner cannot bid on own item")
	ErrBidTooLow          = errors.New("bid must exceed current top bid")
	ErrAuctionNotStarted  = errors.New("auction not started")
	ErrAuctionEnded       = errors.New("auction is over")
	ErrAuctionNotEnded    = errors.New("auction is not over yet")
	ErrAuctionNotSettling = errors.New("auction not available for settle")
	ErrNoWinner           = errors.New("auction has no winner")
)

// Staking errors
var (
	ErrZeroAmount        = errors.New("amount must be greater than zero")
	ErrInsufficientStake = errors.New("amount exceeds staked balance")
	ErrPoolNotFound      = errors.New("pool not found")
	ErrPoolExists        = errors.New("pool already exists")
	ErrHardCapExceeded   = errors.New("stake exceeds pool hard cap")
	ErrInvalidProof      = errors.New("invalid merkle proof")
)

// RPCError wraps a transport failure with the RPC operation that produced it
type RPCError struct {
	Op  string
	Err error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Op, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

func (e *RPCError) Is(target error) bool {
	return target == ErrRPC
}

// NewRPCError returns nil when err is nil
func NewRPCError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RPCError{Op: op, Err: err}
}

// RevertError carries the raw revert reason produced by a contract.
// Code is never rewritten; Is additionally matches the sentinel the code maps to.
type RevertError struct {
	Code   string
	TxHash common.Hash
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.TxHash != (common.Hash{}) {
		return fmt.Sprintf("execution reverted: %s (tx %s)", e.Code, e.TxHash.Hex())
	}
	return fmt.Sprintf("execution reverted: %s", e.Code)
}

func (e *RevertError) Is(target error) bool {
	if target == ErrTransactionReverted {
		return true
	}
	sentinel := ClassifyRevert(e.Code)
	return sentinel != nil && sentinel == target
}

// PrecheckError is returned when a client-side check rejects a call before submission.
// Code is the revert code the contract is expected to produce for the same condition.
type PrecheckError struct {
	Err    error
	Code   string
	Detail string
}

func (e *PrecheckError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *PrecheckError) Unwrap() error {
	return e.Err
}

// NewPrecheckError builds a PrecheckError for sentinel, looking up its revert code
func NewPrecheckError(sentinel error, detail string) error {
	return &PrecheckError{Err: sentinel, Code: RevertCodeFor(sentinel), Detail: detail}
}

// RevertCode extracts the raw contract revert code from err, if any
func RevertCode(err error) (string, bool) {
	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return revertErr.Code, true
	}
	return "", false
}
