package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
)

// Backend is the part of chain.Client a bound contract needs
//
//go:generate mockgen -source=contract.go -destination=../mocks/contract.go -package=mocks -mock_names=Backend=MockBackend
type Backend interface {
	// Call executes a read-only call
	Call(ctx context.Context, req chain.CallRequest) ([]byte, error)

	// Transact sends a transaction and waits for its receipt
	Transact(ctx context.Context, req chain.TxRequest) (*types.Receipt, error)

	// FilterLogs returns historical logs
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// SubscribeLogs subscribes to new logs
	SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// Event is a decoded contract log
type Event struct {
	Contract    string
	Name        string
	Address     common.Address
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
	Args        map[string]interface{}
	Raw         types.Log
}

// Contract is a deployed contract bound to its ABI and a chain backend
type Contract struct {
	name    string
	address common.Address
	abi     abi.ABI
	backend Backend
}

// Bind returns a handle whose methods map onto the functions and events of parsed
func Bind(name string, address common.Address, parsed abi.ABI, backend Backend) *Contract {
	return &Contract{
		name:    name,
		address: address,
		abi:     parsed,
		backend: backend,
	}
}

func (c *Contract) Name() string {
	return c.name
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Pack ABI-encodes a call to method
func (c *Contract) Pack(method string, args ...interface{}) ([]byte, error) {
	if _, ok := c.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", domain.ErrInvalidInput, c.name, method)
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to pack %s.%s: %v", domain.ErrInvalidInput, c.name, method, err)
	}
	return data, nil
}

// Call invokes a view or pure method and returns its decoded outputs in declaration order
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	m, out, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}

	values, err := m.Outputs.Unpack(out)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unpack %s.%s: %v", domain.ErrDecode, c.name, method, err)
	}
	return values, nil
}

// CallInto invokes a view or pure method and copies its outputs into out.
// Multiple outputs are matched to the exported fields of a struct by name.
func (c *Contract) CallInto(ctx context.Context, out interface{}, method string, args ...interface{}) error {
	_, data, err := c.call(ctx, method, args...)
	if err != nil {
		return err
	}

	if err := c.abi.UnpackIntoInterface(out, method, data); err != nil {
		return fmt.Errorf("%w: failed to unpack %s.%s: %v", domain.ErrDecode, c.name, method, err)
	}
	return nil
}

func (c *Contract) call(ctx context.Context, method string, args ...interface{}) (*abi.Method, []byte, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s has no method %q", domain.ErrInvalidInput, c.name, method)
	}
	if !m.IsConstant() {
		return nil, nil, fmt.Errorf("%w: %s.%s mutates state and must be sent as a transaction", domain.ErrInvalidInput, c.name, method)
	}

	input, err := c.Pack(method, args...)
	if err != nil {
		return nil, nil, err
	}

	out, err := c.backend.Call(ctx, chain.CallRequest{To: c.address, Data: input})
	if err != nil {
		return nil, nil, fmt.Errorf("%s.%s: %w", c.name, method, err)
	}

	if len(out) == 0 && len(m.Outputs) > 0 {
		return nil, nil, fmt.Errorf("%w: %s.%s returned no data, is the contract deployed at %s?",
			domain.ErrDecode, c.name, method, c.address.Hex())
	}

	return &m, out, nil
}

// Transact sends a state-mutating call and waits for it to be mined.
// A revert is returned as *domain.RevertError carrying the reason unmodified.
func (c *Contract) Transact(ctx context.Context, method string, value *big.Int, args ...interface{}) (*types.Receipt, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", domain.ErrInvalidInput, c.name, method)
	}
	if m.IsConstant() {
		return nil, fmt.Errorf("%w: %s.%s is read-only", domain.ErrInvalidInput, c.name, method)
	}
	if value != nil && value.Sign() > 0 && !m.IsPayable() {
		return nil, fmt.Errorf("%w: %s.%s is not payable", domain.ErrInvalidInput, c.name, method)
	}

	input, err := c.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "Sending contract transaction",
		zap.String("contract", c.name),
		zap.String("method", method),
		logger.Address("address", c.address))

	receipt, err := c.backend.Transact(ctx, chain.TxRequest{To: c.address, Data: input, Value: value})
	if err != nil {
		return receipt, fmt.Errorf("%s.%s: %w", c.name, method, err)
	}

	logger.InfoCtx(ctx, "Contract transaction mined",
		zap.String("contract", c.name),
		zap.String("method", method),
		logger.TxHash(receipt.TxHash),
		zap.Uint64("gasUsed", receipt.GasUsed))

	return receipt, nil
}

// ParseLog decodes both the indexed and the data arguments of a log emitted by this contract
func (c *Contract) ParseLog(log types.Log) (*Event, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("%w: anonymous log at %s", domain.ErrDecode, log.TxHash.Hex())
	}

	ev, err := c.abi.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no event with topic %s", domain.ErrDecode, c.name, log.Topics[0].Hex())
	}

	args := make(map[string]interface{}, len(ev.Inputs))
	if err := ev.Inputs.UnpackIntoMap(args, log.Data); err != nil {
		return nil, fmt.Errorf("%w: failed to unpack %s.%s data: %v", domain.ErrDecode, c.name, ev.Name, err)
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s.%s topics: %v", domain.ErrDecode, c.name, ev.Name, err)
	}

	return &Event{
		Contract:    c.name,
		Name:        ev.Name,
		Address:     log.Address,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.Index,
		Args:        args,
		Raw:         log,
	}, nil
}

// Events decodes every log in receipt that this contract emitted under name
func (c *Contract) Events(receipt *types.Receipt, name string) ([]*Event, error) {
	ev, ok := c.abi.Events[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no event %q", domain.ErrInvalidInput, c.name, name)
	}
	if receipt == nil {
		return nil, nil
	}

	var events []*Event
	for _, log := range receipt.Logs {
		if log.Address != c.address || len(log.Topics) == 0 || log.Topics[0] != ev.ID {
			continue
		}
		parsed, err := c.ParseLog(*log)
		if err != nil {
			return nil, err
		}
		events = append(events, parsed)
	}
	return events, nil
}

// FilterEvents returns the decoded historical events named in names, all events when empty
func (c *Contract) FilterEvents(ctx context.Context, fromBlock, toBlock *big.Int, names ...string) ([]*Event, error) {
	query, err := c.filterQuery(names)
	if err != nil {
		return nil, err
	}
	query.FromBlock = fromBlock
	query.ToBlock = toBlock

	logs, err := c.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, err
	}

	events := make([]*Event, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		ev, err := c.ParseLog(log)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (c *Contract) filterQuery(names []string) (ethereum.FilterQuery, error) {
	query := ethereum.FilterQuery{Addresses: []common.Address{c.address}}
	if len(names) == 0 {
		return query, nil
	}

	topics := make([]common.Hash, 0, len(names))
	for _, name := range names {
		ev, ok := c.abi.Events[name]
		if !ok {
			return query, fmt.Errorf("%w: %s has no event %q", domain.ErrInvalidInput, c.name, name)
		}
		topics = append(topics, ev.ID)
	}
	query.Topics = [][]common.Hash{topics}
	return query, nil
}

// IsRevert reports whether err is a contract revert rather than a transport failure
func IsRevert(err error) bool {
	return errors.Is(err, domain.ErrTransactionReverted)
}
