package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/decibling/smart-contracts/internal/domain"
)

// Fees are the platform fee tiers in basis points of FEE_DENOMINATOR
type Fees struct {
	FirstSale  *big.Int
	SecondSale *big.Int
	Recipient  common.Address
}

// DefaultFees returns the tiers the auction contract is deployed with
func DefaultFees(recipient common.Address) *Fees {
	return &Fees{
		FirstSale:  big.NewInt(domain.FIRST_SALE_FEE),
		SecondSale: big.NewInt(domain.SECOND_SALE_FEE),
		Recipient:  recipient,
	}
}

// Settlement is the expected distribution of a winning bid
type Settlement struct {
	Price          *big.Int
	FeeBps         *big.Int
	Fee            *big.Int
	SellerProceeds *big.Int
	FirstSale      bool
	FeeRecipient   common.Address
}

// ComputeSettlement splits price between the fee recipient and the seller.
// The first-sale tier applies while saleCount is zero.
func ComputeSettlement(price, saleCount *big.Int, fees *Fees) *Settlement {
	first := saleCount == nil || saleCount.Sign() == 0

	bps := fees.SecondSale
	if first {
		bps = fees.FirstSale
	}

	fee := new(big.Int).Mul(price, bps)
	fee.Quo(fee, big.NewInt(domain.FEE_DENOMINATOR))

	return &Settlement{
		Price:          new(big.Int).Set(price),
		FeeBps:         new(big.Int).Set(bps),
		Fee:            fee,
		SellerProceeds: new(big.Int).Sub(price, fee),
		FirstSale:      first,
		FeeRecipient:   fees.Recipient,
	}
}
