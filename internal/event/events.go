// Package event defines the payloads published to the off-chain indexer.
// Each event carries every identifying field needed to reconstruct listing
// state without querying the core synchronously.
package event

import "time"

// Topics (Kafka). One topic per lifecycle family, keyed by collection so all
// events of one collection stay ordered within a partition.
const (
	TopicCollectionCreated = "market.collection.created"
	TopicTokenMinted       = "market.token.minted"
	TopicCharacterMinted   = "market.character.minted"
	TopicListingCreated    = "market.listing.created"
	TopicListingUpdated    = "market.listing.updated"
	TopicListingCanceled   = "market.listing.canceled"
	TopicSaleSettled       = "market.sale.settled"
)

type CollectionCreatedEvent struct {
	Creator    string    `json:"creator"`
	Collection string    `json:"collection"`
	Name       string    `json:"name"`
	Symbol     string    `json:"symbol"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
}

type TokenMintedEvent struct {
	Collection string    `json:"collection"`
	TokenID    uint64    `json:"token_id"`
	Owner      string    `json:"owner"`
	Price      string    `json:"price"` // Decimal string
	MintedAt   time.Time `json:"minted_at"`
}

// CharacterMintedEvent reports one multi-supply mint call; Units lists the
// composite token ids drawn, in draw order.
type CharacterMintedEvent struct {
	Collection string    `json:"collection"`
	Owner      string    `json:"owner"`
	Tier       int16     `json:"tier"`
	Units      []uint64  `json:"units"`
	Price      string    `json:"price"` // total paid, decimal string
	MintedAt   time.Time `json:"minted_at"`
}

type ListingCreatedEvent struct {
	ListingKey   string    `json:"listing_key"`
	Collection   string    `json:"collection"`
	TokenID      uint64    `json:"token_id"`
	Seller       string    `json:"seller"`
	Price        string    `json:"price"`
	Quantity     uint64    `json:"quantity"`
	AllowedBuyer string    `json:"allowed_buyer,omitempty"`
	ListedAt     time.Time `json:"listed_at"`
}

type ListingUpdatedEvent struct {
	ListingKey string    `json:"listing_key"`
	Collection string    `json:"collection"`
	Seller     string    `json:"seller"`
	Price      string    `json:"price"`
	Quantity   uint64    `json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListingCanceledEvent struct {
	ListingKey string    `json:"listing_key"`
	Collection string    `json:"collection"`
	TokenID    uint64    `json:"token_id"`
	Seller     string    `json:"seller"`
	CanceledAt time.Time `json:"canceled_at"`
}

type SaleSettledEvent struct {
	ListingKey     string    `json:"listing_key"`
	Collection     string    `json:"collection"`
	TokenID        uint64    `json:"token_id"`
	Seller         string    `json:"seller"`
	Buyer          string    `json:"buyer"`
	Quantity       uint64    `json:"quantity"`
	Price          string    `json:"price"` // amount actually paid
	Royalty        string    `json:"royalty"`
	MarketFee      string    `json:"market_fee"`
	SellerProceeds string    `json:"seller_proceeds"`
	Remaining      uint64    `json:"remaining"` // units left on the listing, 0 once Sold
	SettledAt      time.Time `json:"settled_at"`
}
