package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/decibling/smart-contracts/internal/domain"
)

// Value returns the i-th decoded output of a Call as T
func Value[T any](values []interface{}, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(values) {
		return zero, fmt.Errorf("%w: output %d out of range (%d outputs)", domain.ErrDecode, i, len(values))
	}

	v, ok := values[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: output %d is %T, want %T", domain.ErrDecode, i, values[i], zero)
	}
	return v, nil
}

// BigInt returns the i-th output as an unsigned integer
func BigInt(values []interface{}, i int) (*big.Int, error) {
	return Value[*big.Int](values, i)
}

// Address returns the i-th output as an address
func Address(values []interface{}, i int) (common.Address, error) {
	return Value[common.Address](values, i)
}

// String returns the i-th output as a string
func String(values []interface{}, i int) (string, error) {
	return Value[string](values, i)
}

// Bool returns the i-th output as a bool
func Bool(values []interface{}, i int) (bool, error) {
	return Value[bool](values, i)
}
