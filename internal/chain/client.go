package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/metrics"
	"github.com/decibling/smart-contracts/internal/wallet"
)

// Client is the JSON-RPC boundary shared by every workflow
//
//go:generate mockgen -source=client.go -destination=../mocks/chain.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// Connect verifies the endpoint and returns the signer account and its native balance
	Connect(ctx context.Context) (*domain.Account, error)

	// Address returns the signer address, zero for a read-only client
	Address() common.Address

	// ChainID returns the configured chain id
	ChainID() *big.Int

	// Balance returns the native balance of an account
	Balance(ctx context.Context, account common.Address) (*big.Int, error)

	// BlockNumber returns the latest block number
	BlockNumber(ctx context.Context) (uint64, error)

	// BlockTime returns the timestamp of the latest block
	BlockTime(ctx context.Context) (time.Time, error)

	// BlockTimeAt returns the timestamp of block number
	BlockTimeAt(ctx context.Context, number uint64) (time.Time, error)

	// StorageAt returns the raw 32-byte word at slot
	StorageAt(ctx context.Context, contract common.Address, slot common.Hash) ([]byte, error)

	// Call executes a read-only call; transient failures are retried
	Call(ctx context.Context, req CallRequest) ([]byte, error)

	// SendTransaction signs and submits a transaction without waiting for it
	SendTransaction(ctx context.Context, req TxRequest) (*PendingTx, error)

	// WaitForReceipt blocks until the transaction is mined and confirmed
	WaitForReceipt(ctx context.Context, tx *PendingTx) (*types.Receipt, error)

	// Transact is SendTransaction followed by WaitForReceipt
	Transact(ctx context.Context, req TxRequest) (*types.Receipt, error)

	// FilterLogs returns historical logs, paginating over large block ranges
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// SubscribeLogs subscribes to new logs matching query
	SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// Close closes the connection
	Close()
}

// Config holds the chain client settings
type Config struct {
	RPCURL              string
	ChainID             *big.Int
	Confirmations       uint64
	GasLimitMultiplier  float64
	MaxGasPrice         *big.Int
	ReceiptPollInterval time.Duration
	// ReadRetryMaxElapsed bounds read retries; zero disables retrying
	ReadRetryMaxElapsed time.Duration
}

// CallRequest is a read-only message call
type CallRequest struct {
	To          common.Address
	Data        []byte
	Value       *big.Int
	BlockNumber *big.Int
}

// TxRequest describes a state-mutating call
type TxRequest struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

// PendingTx is the handle of a submitted transaction
type PendingTx struct {
	Hash    common.Hash
	Nonce   uint64
	From    common.Address
	Request TxRequest
	SentAt  time.Time
}

type client struct {
	cfg     Config
	eth     adapter.EthClient
	signer  wallet.Signer
	clock   adapter.Clock
	metrics *metrics.Recorder

	nonceMu sync.Mutex
	nonce   *uint64
}

// Dial connects to cfg.RPCURL and returns a Client. signer may be nil for read-only use.
func Dial(ctx context.Context, cfg Config, dialer adapter.EthClientDialer, signer wallet.Signer, clock adapter.Clock, recorder *metrics.Recorder) (Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("%w: rpc url is not configured", domain.ErrConnection)
	}

	eth, err := dialer.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial %s: %v", domain.ErrConnection, cfg.RPCURL, err)
	}

	return NewClient(cfg, eth, signer, clock, recorder), nil
}

// NewClient wraps an already dialled EthClient
func NewClient(cfg Config, eth adapter.EthClient, signer wallet.Signer, clock adapter.Clock, recorder *metrics.Recorder) Client {
	if cfg.GasLimitMultiplier <= 0 {
		cfg.GasLimitMultiplier = 1
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = time.Second
	}
	return &client{
		cfg:     cfg,
		eth:     eth,
		signer:  signer,
		clock:   clock,
		metrics: recorder,
	}
}

func (c *client) Connect(ctx context.Context) (*domain.Account, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("%w: no signer configured", domain.ErrConnection)
	}

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	if c.cfg.ChainID != nil && chainID.Cmp(c.cfg.ChainID) != 0 {
		return nil, fmt.Errorf("%w: endpoint serves chain %s, expected %s", domain.ErrConnection, chainID, c.cfg.ChainID)
	}
	c.cfg.ChainID = chainID

	balance, err := c.Balance(ctx, c.signer.Address())
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Connected to chain",
		zap.String("chainID", chainID.String()),
		logger.Address("account", c.signer.Address()),
		logger.BigInt("balance", balance))

	return &domain.Account{Address: c.signer.Address(), Balance: balance}, nil
}

func (c *client) Address() common.Address {
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.Address()
}

func (c *client) ChainID() *big.Int {
	return c.cfg.ChainID
}

func (c *client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.withReadRetry(ctx, "eth_getBalance", func() error {
		var err error
		balance, err = c.eth.BalanceAt(ctx, account, nil)
		return err
	})
	return balance, err
}

func (c *client) BlockNumber(ctx context.Context) (uint64, error) {
	var number uint64
	err := c.withReadRetry(ctx, "eth_blockNumber", func() error {
		var err error
		number, err = c.eth.BlockNumber(ctx)
		return err
	})
	return number, err
}

func (c *client) BlockTime(ctx context.Context) (time.Time, error) {
	header, err := c.latestHeader(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0), nil //nolint:gosec,G115
}

func (c *client) BlockTimeAt(ctx context.Context, number uint64) (time.Time, error) {
	header, err := c.header(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0), nil //nolint:gosec,G115
}

func (c *client) StorageAt(ctx context.Context, contract common.Address, slot common.Hash) ([]byte, error) {
	var word []byte
	err := c.withReadRetry(ctx, "eth_getStorageAt", func() error {
		var err error
		word, err = c.eth.StorageAt(ctx, contract, slot, nil)
		return err
	})
	return word, err
}

func (c *client) Call(ctx context.Context, req CallRequest) ([]byte, error) {
	msg := ethereum.CallMsg{
		From:  c.Address(),
		To:    &req.To,
		Data:  req.Data,
		Value: req.Value,
	}

	var out []byte
	err := c.withReadRetry(ctx, "eth_call", func() error {
		var err error
		out, err = c.eth.CallContract(ctx, msg, req.BlockNumber)
		return err
	})
	return out, err
}

func (c *client) SendTransaction(ctx context.Context, req TxRequest) (*PendingTx, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("%w: no signer configured", domain.ErrConnection)
	}
	if c.cfg.ChainID == nil {
		return nil, fmt.Errorf("%w: chain id unknown, call Connect first", domain.ErrConnection)
	}

	from := c.signer.Address()
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		estimated, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &req.To, Data: req.Data, Value: value})
		if err != nil {
			if revertErr, ok := revertFromError(err); ok {
				c.metrics.Transaction("rejected")
				return nil, revertErr
			}
			return nil, domain.NewRPCError("eth_estimateGas", err)
		}
		gasLimit = uint64(float64(estimated) * c.cfg.GasLimitMultiplier)
	}

	txData, err := c.feeFields(ctx)
	if err != nil {
		return nil, err
	}

	// Nonce assignment and submission are serialised per signer
	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	nonce, err := c.nextNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	var tx *types.Transaction
	switch fees := txData.(type) {
	case *types.DynamicFeeTx:
		fees.ChainID = c.cfg.ChainID
		fees.Nonce = nonce
		fees.Gas = gasLimit
		fees.To = &req.To
		fees.Value = value
		fees.Data = req.Data
		tx = types.NewTx(fees)
	case *types.LegacyTx:
		fees.Nonce = nonce
		fees.Gas = gasLimit
		fees.To = &req.To
		fees.Value = value
		fees.Data = req.Data
		tx = types.NewTx(fees)
	}

	signed, err := c.signer.SignTx(tx, c.cfg.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		// the node may or may not have seen the nonce; resync on next send
		c.nonce = nil
		if revertErr, ok := revertFromError(err); ok {
			c.metrics.Transaction("rejected")
			return nil, revertErr
		}
		return nil, domain.NewRPCError("eth_sendRawTransaction", err)
	}
	next := nonce + 1
	c.nonce = &next

	logger.DebugCtx(ctx, "Transaction submitted",
		logger.TxHash(signed.Hash()),
		zap.Uint64("nonce", nonce),
		logger.Address("to", req.To))
	c.metrics.Transaction("submitted")

	return &PendingTx{
		Hash:    signed.Hash(),
		Nonce:   nonce,
		From:    from,
		Request: TxRequest{To: req.To, Data: req.Data, Value: value, GasLimit: gasLimit},
		SentAt:  c.clock.Now(),
	}, nil
}

func (c *client) WaitForReceipt(ctx context.Context, tx *PendingTx) (*types.Receipt, error) {
	var receipt *types.Receipt
	for {
		r, err := c.eth.TransactionReceipt(ctx, tx.Hash)
		if err == nil && r != nil {
			receipt = r
			break
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			logger.WarnCtx(ctx, "Failed to fetch receipt, polling again", zap.Error(err), logger.TxHash(tx.Hash))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(c.cfg.ReceiptPollInterval):
		}
	}

	if err := c.waitConfirmations(ctx, receipt); err != nil {
		return nil, err
	}

	if receipt.Status == types.ReceiptStatusFailed {
		c.metrics.Transaction("reverted")
		revertErr := c.replayRevert(ctx, tx, receipt.BlockNumber)
		logger.WarnCtx(ctx, "Transaction reverted",
			logger.TxHash(tx.Hash),
			zap.String("reason", revertErr.Code))
		return receipt, revertErr
	}

	c.metrics.Transaction("mined")
	return receipt, nil
}

func (c *client) Transact(ctx context.Context, req TxRequest) (*types.Receipt, error) {
	pending, err := c.SendTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.WaitForReceipt(ctx, pending)
}

func (c *client) SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	sub, err := c.eth.SubscribeFilterLogs(ctx, query, ch)
	if err != nil {
		return nil, domain.NewRPCError("eth_subscribe", err)
	}
	return sub, nil
}

func (c *client) Close() {
	c.eth.Close()
}

// nextNonce must be called with nonceMu held
func (c *client) nextNonce(ctx context.Context, from common.Address) (uint64, error) {
	if c.nonce != nil {
		return *c.nonce, nil
	}
	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return 0, domain.NewRPCError("eth_getTransactionCount", err)
	}
	return nonce, nil
}

// feeFields returns a DynamicFeeTx when the chain reports a base fee, otherwise a LegacyTx
func (c *client) feeFields(ctx context.Context) (types.TxData, error) {
	header, err := c.latestHeader(ctx)
	if err != nil {
		return nil, err
	}

	if header.BaseFee == nil {
		gasPrice, err := c.eth.SuggestGasPrice(ctx)
		if err != nil {
			return nil, domain.NewRPCError("eth_gasPrice", err)
		}
		if c.cfg.MaxGasPrice != nil && gasPrice.Cmp(c.cfg.MaxGasPrice) > 0 {
			gasPrice = new(big.Int).Set(c.cfg.MaxGasPrice)
		}
		return &types.LegacyTx{GasPrice: gasPrice}, nil
	}

	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, domain.NewRPCError("eth_maxPriorityFeePerGas", err)
	}

	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(header.BaseFee, big.NewInt(2)))
	if c.cfg.MaxGasPrice != nil && feeCap.Cmp(c.cfg.MaxGasPrice) > 0 {
		feeCap = new(big.Int).Set(c.cfg.MaxGasPrice)
	}
	if tip.Cmp(feeCap) > 0 {
		tip = new(big.Int).Set(feeCap)
	}

	return &types.DynamicFeeTx{GasTipCap: tip, GasFeeCap: feeCap}, nil
}

func (c *client) latestHeader(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, nil)
}

func (c *client) header(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.withReadRetry(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, number)
		return err
	})
	return header, err
}

func (c *client) waitConfirmations(ctx context.Context, receipt *types.Receipt) error {
	if c.cfg.Confirmations == 0 || receipt.BlockNumber == nil {
		return nil
	}

	target := receipt.BlockNumber.Uint64() + c.cfg.Confirmations
	for {
		head, err := c.BlockNumber(ctx)
		if err != nil {
			return err
		}
		if head >= target {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.clock.After(c.cfg.ReceiptPollInterval):
		}
	}
}

// replayRevert re-executes a failed transaction as a call to recover its revert reason
func (c *client) replayRevert(ctx context.Context, tx *PendingTx, blockNumber *big.Int) *domain.RevertError {
	msg := ethereum.CallMsg{
		From:  tx.From,
		To:    &tx.Request.To,
		Data:  tx.Request.Data,
		Value: tx.Request.Value,
		Gas:   tx.Request.GasLimit,
	}

	_, err := c.eth.CallContract(ctx, msg, blockNumber)
	if err != nil {
		if revertErr, ok := revertFromError(err); ok {
			revertErr.TxHash = tx.Hash
			return revertErr
		}
		logger.WarnCtx(ctx, "Failed to replay reverted transaction", zap.Error(err), logger.TxHash(tx.Hash))
	}

	return &domain.RevertError{Code: UnknownRevertReason, TxHash: tx.Hash}
}

// withReadRetry retries fn with exponential backoff until ReadRetryMaxElapsed.
// Reverts and context cancellation are never retried.
func (c *client) withReadRetry(ctx context.Context, op string, fn func() error) error {
	var b backoff.BackOff
	if c.cfg.ReadRetryMaxElapsed <= 0 {
		b = &backoff.StopBackOff{}
	} else {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = min(200*time.Millisecond, c.cfg.ReadRetryMaxElapsed/4)
		eb.MaxInterval = 5 * time.Second
		eb.MaxElapsedTime = c.cfg.ReadRetryMaxElapsed
		b = eb
	}

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if revertErr, ok := revertFromError(err); ok {
			return backoff.Permanent(revertErr)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		logger.WarnCtx(ctx, "RPC read failed, retrying",
			zap.String("op", op),
			zap.Error(err),
			zap.Duration("backoff", next))
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
	if err == nil {
		return nil
	}

	var revertErr *domain.RevertError
	if errors.As(err, &revertErr) {
		return revertErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.NewRPCError(op, err)
}
