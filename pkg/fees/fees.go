// Package fees implements the basis-point arithmetic used by every
// settlement path: marketplace fee, creator royalty, seller proceeds and
// creation-fee discounts. All divisions floor, so the platform and royalty
// recipient absorb the rounding loss, never the seller.
package fees

import (
	"github.com/shopspring/decimal"

	"market-core/pkg/errno"
)

// BpsBase is the denominator for basis-point math (10000 = 100%).
var BpsBase = decimal.NewFromInt(10000)

// MaxFeeRateBps caps the marketplace fee rate at 10%. Rates above this are
// rejected so a configuration change between listing and sale cannot strip a
// seller of more than a tenth of the price.
const MaxFeeRateBps = 1000

// MaxRoyaltyBps caps a collection's royalty rate at 90%. Together with
// MaxFeeRateBps the two cuts can never exceed the sale amount, so seller
// proceeds stay non-negative at any rate combination.
const MaxRoyaltyBps = 10000 - MaxFeeRateBps

// Cut returns floor(amount * bps / 10000).
func Cut(amount decimal.Decimal, bps int64) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(bps)).Div(BpsBase).Floor()
}

// Split breaks a sale amount into (royalty, marketFee, sellerProceeds).
// royaltiesDisabled zeroes the royalty share. The three parts always sum to
// the input amount.
func Split(amount decimal.Decimal, feeBps, royaltyBps int64, royaltiesDisabled bool) (royalty, marketFee, sellerProceeds decimal.Decimal) {
	royalty = decimal.Zero
	if !royaltiesDisabled {
		royalty = Cut(amount, royaltyBps)
	}
	marketFee = Cut(amount, feeBps)
	sellerProceeds = amount.Sub(royalty).Sub(marketFee)
	return royalty, marketFee, sellerProceeds
}

// UnitPrice derives the per-unit price of a multi-quantity listing as
// floor(total / quantity).
func UnitPrice(total decimal.Decimal, quantity uint64) decimal.Decimal {
	return total.Div(decimal.NewFromUint64(quantity)).Floor()
}

// ValidateListingPrice rejects listing economics that cannot settle: a
// non-positive total, a zero quantity, or a total so small the floored unit
// price is zero (which would let every fill transfer the asset for free).
func ValidateListingPrice(total decimal.Decimal, quantity uint64) error {
	if quantity == 0 {
		return errno.ErrInvalidQuantity
	}
	if !total.IsPositive() || UnitPrice(total, quantity).IsZero() {
		return errno.ErrInvalidPrice
	}
	return nil
}

// Discounted applies a creation-fee discount expressed in basis points:
// floor(fee * (10000 - discountBps) / 10000). A 10000 bps discount reduces
// the fee to zero; the result is never negative.
func Discounted(fee decimal.Decimal, discountBps int64) decimal.Decimal {
	if discountBps <= 0 {
		return fee
	}
	if discountBps >= 10000 {
		return decimal.Zero
	}
	return Cut(fee, 10000-discountBps)
}

// ValidateFeeRate rejects marketplace fee rates above MaxFeeRateBps.
func ValidateFeeRate(bps int64) error {
	if bps < 0 || bps > MaxFeeRateBps {
		return errno.ErrConfigurationRejected
	}
	return nil
}

// ValidateRoyaltyRate rejects royalty rates above MaxRoyaltyBps.
func ValidateRoyaltyRate(bps int64) error {
	if bps < 0 || bps > MaxRoyaltyBps {
		return errno.ErrConfigurationRejected
	}
	return nil
}

// ValidateDiscount rejects trusted-creator discounts above 10000 bps.
func ValidateDiscount(bps int64) error {
	if bps < 0 || bps > 10000 {
		return errno.ErrConfigurationRejected
	}
	return nil
}
