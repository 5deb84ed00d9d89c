package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"market-core/pkg/errno"
)

func sequentialCollection() *Collection {
	return &Collection{
		Address:          "0x1000000000000000000000000000000000000001",
		Model:            ModelSequential,
		MintPrice:        decimal.NewFromInt(10),
		SupplyCeiling:    3,
		PerWalletCeiling: 2,
		MintingEnabled:   true,
	}
}

func TestValidateSequentialMintHappyPath(t *testing.T) {
	c := sequentialCollection()
	assert.NoError(t, c.ValidateSequentialMint(0, decimal.NewFromInt(10)))
}

func TestValidateSequentialMintDisabled(t *testing.T) {
	c := sequentialCollection()
	c.MintingEnabled = false
	assert.ErrorIs(t, c.ValidateSequentialMint(0, decimal.NewFromInt(10)), errno.ErrMintingDisabled)
}

func TestValidateSequentialMintUnderpaid(t *testing.T) {
	c := sequentialCollection()
	assert.ErrorIs(t, c.ValidateSequentialMint(0, decimal.NewFromInt(9)), errno.ErrInsufficientPayment)
}

func TestValidateSequentialMintSupplyExhausted(t *testing.T) {
	c := sequentialCollection()
	c.SupplyCeiling = 1
	c.TotalMinted = 1
	assert.ErrorIs(t, c.ValidateSequentialMint(0, decimal.NewFromInt(10)), errno.ErrSupplyExhausted)
}

func TestValidateSequentialMintWalletCeiling(t *testing.T) {
	c := sequentialCollection()
	assert.ErrorIs(t, c.ValidateSequentialMint(2, decimal.NewFromInt(10)), errno.ErrWalletCeilingReached)
	// ceiling 0 means unlimited
	c.PerWalletCeiling = 0
	assert.NoError(t, c.ValidateSequentialMint(50, decimal.NewFromInt(10)))
}

func TestValidateSequentialMintWrongModel(t *testing.T) {
	c := sequentialCollection()
	c.Model = ModelWeighted
	assert.ErrorIs(t, c.ValidateSequentialMint(0, decimal.NewFromInt(10)), errno.ErrInvalidState)
}

func TestTokenURIReveal(t *testing.T) {
	c := sequentialCollection()
	c.BaseURI = "ipfs://base/"
	c.PlaceholderURI = "ipfs://hidden"

	assert.Equal(t, "ipfs://hidden", c.TokenURI(5))
	c.Revealed = true
	assert.Equal(t, "ipfs://base/5", c.TokenURI(5))
}

func TestListingEnsureActive(t *testing.T) {
	l := &Listing{Status: ListingStatusActive}
	assert.NoError(t, l.EnsureActive())

	l.Status = ListingStatusSold
	assert.ErrorIs(t, l.EnsureActive(), errno.ErrInvalidState)

	l.Status = ListingStatusCanceled
	assert.ErrorIs(t, l.EnsureActive(), errno.ErrInvalidState)
}

func TestListingValidateBuyPrivate(t *testing.T) {
	l := &Listing{
		Status:       ListingStatusActive,
		Quantity:     1,
		AllowedBuyer: "0xAa00000000000000000000000000000000000001",
	}

	assert.ErrorIs(t, l.ValidateBuy("0xBb00000000000000000000000000000000000002", 1), errno.ErrUnauthorized)
	assert.NoError(t, l.ValidateBuy("0xAa00000000000000000000000000000000000001", 1))
}

func TestListingValidateBuyQuantity(t *testing.T) {
	l := &Listing{Status: ListingStatusActive, Quantity: 3}

	assert.NoError(t, l.ValidateBuy("0xAa00000000000000000000000000000000000001", 3))
	assert.ErrorIs(t, l.ValidateBuy("0xAa00000000000000000000000000000000000001", 4), errno.ErrInvalidQuantity)
	assert.ErrorIs(t, l.ValidateBuy("0xAa00000000000000000000000000000000000001", 0), errno.ErrInvalidQuantity)
}

func TestListingValidateCancel(t *testing.T) {
	l := &Listing{Status: ListingStatusActive, Seller: "0xAa00000000000000000000000000000000000001"}

	assert.ErrorIs(t, l.ValidateCancel("0xBb00000000000000000000000000000000000002"), errno.ErrUnauthorized)
	assert.NoError(t, l.ValidateCancel("0xAa00000000000000000000000000000000000001"))

	l.Status = ListingStatusCanceled
	assert.ErrorIs(t, l.ValidateCancel("0xAa00000000000000000000000000000000000001"), errno.ErrInvalidState)
}

func TestMarketStateEnsureOwner(t *testing.T) {
	s := &MarketState{Owner: "0xAa00000000000000000000000000000000000001"}

	assert.NoError(t, s.EnsureOwner("0xAa00000000000000000000000000000000000001"))
	assert.ErrorIs(t, s.EnsureOwner("0xBb00000000000000000000000000000000000002"), errno.ErrUnauthorized)
}

func TestCharacterSupplyAvailable(t *testing.T) {
	s := &CharacterSupply{Minted: 0, MaxSupply: 2}
	assert.True(t, s.Available())

	s.Minted = 2
	assert.False(t, s.Available())
}

func TestCompositeTokenID(t *testing.T) {
	assert.Equal(t, uint64(8), CompositeTokenID(1, 0))
	assert.Equal(t, uint64(11), CompositeTokenID(1, 3))
	assert.NotEqual(t, CompositeTokenID(1, 3), CompositeTokenID(2, 0))
}
