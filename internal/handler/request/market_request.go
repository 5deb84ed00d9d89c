package request

import "github.com/shopspring/decimal"

// Callers identify themselves by address and attach payment explicitly; the
// settlement layer debits at most the attached amount from their account.

type CreateCollectionRequest struct {
	Creator          string             `json:"creator" binding:"required"`
	Payment          decimal.Decimal    `json:"payment"`
	Name             string             `json:"name" binding:"required"`
	Symbol           string             `json:"symbol" binding:"required"`
	Model            string             `json:"model" binding:"required"`
	BaseURI          string             `json:"base_uri"`
	PlaceholderURI   string             `json:"placeholder_uri"`
	MintPrice        decimal.Decimal    `json:"mint_price"`
	TierPrices       [4]decimal.Decimal `json:"tier_prices"`
	SupplyCeiling    uint64             `json:"supply_ceiling"`
	PerWalletCeiling uint64             `json:"per_wallet_ceiling"`
	PerTxCeiling     uint64             `json:"per_tx_ceiling"`
	RoyaltyBps       int64              `json:"royalty_bps"`
	MintingEnabled   bool               `json:"minting_enabled"`
	Revealed         bool               `json:"revealed"`
}

type MintRequest struct {
	To      string          `json:"to" binding:"required"`
	Payment decimal.Decimal `json:"payment"`
}

type MintWeightedRequest struct {
	To       string          `json:"to" binding:"required"`
	Tier     int16           `json:"tier"`
	Quantity uint64          `json:"quantity" binding:"required"`
	Payment  decimal.Decimal `json:"payment"`
}

type AddCharacterRequest struct {
	Caller      string    `json:"caller" binding:"required"`
	CharacterID uint64    `json:"character_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	MaxPerTier  [4]uint64 `json:"max_per_tier"`
}

type UpdateCollectionRequest struct {
	Caller         string           `json:"caller" binding:"required"`
	MintPrice      *decimal.Decimal `json:"mint_price"`
	MintingEnabled *bool            `json:"minting_enabled"`
	Revealed       *bool            `json:"revealed"`
	BaseURI        *string          `json:"base_uri"`
	PlaceholderURI *string          `json:"placeholder_uri"`
}

type WithdrawRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type ApprovalRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Approved bool   `json:"approved"`
}

type ListRequest struct {
	Seller       string          `json:"seller" binding:"required"`
	Collection   string          `json:"collection" binding:"required"`
	TokenID      uint64          `json:"token_id" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	Quantity     uint64          `json:"quantity" binding:"required"`
	AllowedBuyer string          `json:"allowed_buyer"`
}

type BuyRequest struct {
	Buyer    string          `json:"buyer" binding:"required"`
	Quantity uint64          `json:"quantity"` // 0 = whole remaining quantity
	Payment  decimal.Decimal `json:"payment"`
}

type CancelRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type UpdateListingRequest struct {
	Caller   string          `json:"caller" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity uint64          `json:"quantity" binding:"required"`
}

type DepositRequest struct {
	Address string          `json:"address" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}
