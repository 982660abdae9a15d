package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
)

// maxLogRange is the initial block span of a single eth_getLogs request
const maxLogRange = uint64(100_000)

func (c *client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	if query.BlockHash != nil {
		logs, err := c.eth.FilterLogs(ctx, query)
		return logs, domain.NewRPCError("eth_getLogs", err)
	}

	fromBlock := big.NewInt(0)
	if query.FromBlock != nil {
		fromBlock = new(big.Int).Set(query.FromBlock)
	}

	var toBlock *big.Int
	if query.ToBlock != nil {
		toBlock = new(big.Int).Set(query.ToBlock)
	} else {
		latest, err := c.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		toBlock = new(big.Int).SetUint64(latest)
	}

	if fromBlock.Cmp(toBlock) > 0 {
		return nil, nil
	}

	return c.filterLogsInChunks(ctx, query, fromBlock.Uint64(), toBlock.Uint64())
}

// filterLogsInChunks walks [from, to] in chunks, halving the chunk when the
// node refuses a range for returning too many results
func (c *client) filterLogsInChunks(ctx context.Context, query ethereum.FilterQuery, from uint64, to uint64) ([]types.Log, error) {
	step := maxLogRange
	var all []types.Log

	for current := from; current <= to; {
		end := current + step - 1
		if end > to || end < current {
			end = to
		}

		chunk := query
		chunk.FromBlock = new(big.Int).SetUint64(current)
		chunk.ToBlock = new(big.Int).SetUint64(end)

		logs, err := c.eth.FilterLogs(ctx, chunk)
		if err == nil {
			all = append(all, logs...)
			if end == to {
				break
			}
			current = end + 1
			continue
		}

		if !isTooManyResultsError(err) || step == 1 {
			return nil, domain.NewRPCError("eth_getLogs", fmt.Errorf("range %d-%d: %w", current, end, err))
		}

		step /= 2
		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.Uint64("newStepSize", step),
			zap.Uint64("fromBlock", current))
	}

	return all, nil
}

// isTooManyResultsError checks if the error is a provider's result-size limit
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"too many results",
		"query returned more than",
		"block range is too wide",
		"log response size exceeded",
		"exceed maximum block range",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
