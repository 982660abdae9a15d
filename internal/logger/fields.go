package logger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Address renders an account or contract address in checksum form
func Address(key string, addr common.Address) zap.Field {
	return zap.String(key, addr.Hex())
}

// TxHash renders a transaction hash
func TxHash(hash common.Hash) zap.Field {
	return zap.String("txHash", hash.Hex())
}

// BigInt renders a big integer in base 10; nil is rendered as "<nil>"
func BigInt(key string, v *big.Int) zap.Field {
	if v == nil {
		return zap.String(key, "<nil>")
	}
	return zap.String(key, v.String())
}
