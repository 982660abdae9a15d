package chain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/decibling/smart-contracts/internal/domain"
)

// UnknownRevertReason is reported when a failed transaction cannot be replayed for its reason
const UnknownRevertReason = "execution reverted"

// hardhat and anvil report the reason inside the error message instead of the data field
var reasonStringPattern = regexp.MustCompile(`reverted with reason string '(.*)'`)

// revertFromError recognises a contract revert in a JSON-RPC error.
// The ABI-encoded Error(string) payload is preferred over the message text.
func revertFromError(err error) (*domain.RevertError, bool) {
	if err == nil {
		return nil, false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(hexData); decodeErr == nil && len(data) > 0 {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return &domain.RevertError{Code: reason, Data: data}, true
				}
				// custom error or panic code; surface the raw selector payload
				return &domain.RevertError{Code: hexData, Data: data}, true
			}
		}
	}

	msg := err.Error()
	if match := reasonStringPattern.FindStringSubmatch(msg); match != nil {
		return &domain.RevertError{Code: match[1]}, true
	}

	if idx := strings.Index(msg, "execution reverted"); idx >= 0 {
		reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len("execution reverted"):], ":"))
		if reason == "" {
			reason = UnknownRevertReason
		}
		return &domain.RevertError{Code: reason}, true
	}

	return nil, false
}
