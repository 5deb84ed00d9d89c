package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"market-core/pkg/errno"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSplitDocumentedScenario(t *testing.T) {
	// price 100, fee 450 bps, royalty 250 bps
	royalty, fee, proceeds := Split(d(100), 450, 250, false)

	assert.True(t, d(2).Equal(royalty), "royalty = floor(100*250/10000) = 2")
	assert.True(t, d(4).Equal(fee), "fee = floor(100*450/10000) = 4")
	assert.True(t, d(94).Equal(proceeds))
}

func TestSplitConservation(t *testing.T) {
	cases := []struct {
		amount     int64
		feeBps     int64
		royaltyBps int64
	}{
		{1, 450, 250},
		{99, 999, 10000},
		{1000000, 1, 1},
		{7777, 333, 667},
		{0, 450, 250},
	}

	for _, c := range cases {
		royalty, fee, proceeds := Split(d(c.amount), c.feeBps, c.royaltyBps, false)
		sum := royalty.Add(fee).Add(proceeds)
		assert.True(t, d(c.amount).Equal(sum), "royalty+fee+proceeds must equal amount for %+v", c)
		if c.feeBps+c.royaltyBps <= 10000 {
			assert.False(t, proceeds.IsNegative(), "proceeds negative for %+v", c)
		}
	}
}

func TestSplitRoyaltiesDisabled(t *testing.T) {
	royalty, fee, proceeds := Split(d(100), 450, 250, true)

	assert.True(t, royalty.IsZero())
	assert.True(t, d(4).Equal(fee))
	assert.True(t, d(96).Equal(proceeds))
}

func TestCutFloors(t *testing.T) {
	// 100 * 450 / 10000 = 4.5 -> 4
	assert.True(t, d(4).Equal(Cut(d(100), 450)))
	// 1 * 1 / 10000 -> 0
	assert.True(t, Cut(d(1), 1).IsZero())
	// full rate returns the amount untouched
	assert.True(t, d(123).Equal(Cut(d(123), 10000)))
}

func TestSplitMaxRatesKeepProceedsNonNegative(t *testing.T) {
	// At the validator ceilings the two cuts can never exceed the amount.
	for _, amount := range []int64{1, 99, 100, 7777, 1000000} {
		royalty, fee, proceeds := Split(d(amount), MaxFeeRateBps, MaxRoyaltyBps, false)
		assert.False(t, proceeds.IsNegative(), "proceeds negative for amount %d", amount)
		assert.True(t, d(amount).Equal(royalty.Add(fee).Add(proceeds)))
	}

	// A royalty rate above the cap would eat into the seller; the validator
	// must reject it before it ever reaches a collection row.
	_, _, proceeds := Split(d(100), 250, 10000, false)
	assert.True(t, proceeds.IsNegative())
	assert.Error(t, ValidateRoyaltyRate(10000))
}

func TestUnitPrice(t *testing.T) {
	assert.True(t, d(33).Equal(UnitPrice(d(100), 3)))
	assert.True(t, d(50).Equal(UnitPrice(d(100), 2)))
	assert.True(t, d(100).Equal(UnitPrice(d(100), 1)))
}

func TestValidateListingPrice(t *testing.T) {
	assert.NoError(t, ValidateListingPrice(d(100), 3))
	assert.NoError(t, ValidateListingPrice(d(5), 5))

	// floor(3/5) = 0: every fill would settle for free.
	assert.ErrorIs(t, ValidateListingPrice(d(3), 5), errno.ErrInvalidPrice)
	assert.ErrorIs(t, ValidateListingPrice(d(0), 1), errno.ErrInvalidPrice)
	assert.ErrorIs(t, ValidateListingPrice(d(-1), 1), errno.ErrInvalidPrice)
	assert.ErrorIs(t, ValidateListingPrice(d(10), 0), errno.ErrInvalidQuantity)
}

func TestDiscounted(t *testing.T) {
	fee := d(1000)

	assert.True(t, d(1000).Equal(Discounted(fee, 0)))
	assert.True(t, d(750).Equal(Discounted(fee, 2500)))
	assert.True(t, Discounted(fee, 10000).IsZero())
	// never below zero even with a bogus oversized discount
	assert.True(t, Discounted(fee, 20000).IsZero())
	// floors: 99 * 7500 / 10000 = 74.25 -> 74
	assert.True(t, d(74).Equal(Discounted(d(99), 2500)))
}

func TestValidateFeeRate(t *testing.T) {
	assert.NoError(t, ValidateFeeRate(0))
	assert.NoError(t, ValidateFeeRate(450))
	assert.NoError(t, ValidateFeeRate(1000))
	assert.Error(t, ValidateFeeRate(1001))
	assert.Error(t, ValidateFeeRate(-1))
}

func TestValidateRoyaltyRate(t *testing.T) {
	assert.NoError(t, ValidateRoyaltyRate(0))
	assert.NoError(t, ValidateRoyaltyRate(MaxRoyaltyBps))
	assert.Error(t, ValidateRoyaltyRate(MaxRoyaltyBps+1))
	assert.Error(t, ValidateRoyaltyRate(-5))
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(10000))
	assert.Error(t, ValidateDiscount(10001))
}
