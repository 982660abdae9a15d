package domain

import "math/big"

const (
	// Default HD path for signer derivation
	DEFAULT_DERIVATION_PATH = "m/44'/60'/0'/0/0"

	// Staking constants
	DEFAULT_POOL_ID = "decibling_pool"

	// Fee denominator shared by the auction sale fees
	FEE_DENOMINATOR = 10000
	// FIRST_SALE_FEE is the platform fee (basis points) taken on an item's first sale
	FIRST_SALE_FEE = 1250
	// SECOND_SALE_FEE is the platform fee (basis points) taken on every later sale
	SECOND_SALE_FEE = 1000
)

// DefaultPoolHardCap is the hard cap of the default staking pool (10M tokens, 18 decimals)
func DefaultPoolHardCap() *big.Int {
	return new(big.Int).Mul(big.NewInt(10_000_000), Ether(1))
}

// Ether returns n * 10^18
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}
