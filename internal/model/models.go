package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"market-core/pkg/errno"
)

// Collection issuance models.
const (
	ModelSequential = "sequential" // one-of-a-kind tokens, strictly increasing ids
	ModelWeighted   = "weighted"   // (character, rarity tier) multi-supply pools
)

// Listing lifecycle. Transitions are one-directional:
// Active -> Sold | Canceled, never back.
const (
	ListingStatusActive   = "active"
	ListingStatusSold     = "sold"
	ListingStatusCanceled = "canceled"
)

// NumTiers 稀有度等级数量 (0=common .. 3=legendary)
const NumTiers = 4

// CompositeTokenID packs (characterId, tier) into the token id used for
// weighted-model holdings and listings.
func CompositeTokenID(characterID uint64, tier int16) uint64 {
	return characterID*8 + uint64(tier)
}

// Collection 集合注册表 (append-only)
// Creator is the creator-of-record written by the factory and never changes.
// SupplyCeiling is fixed at creation; the owner-mutable fields only affect
// operations that come after the change.
type Collection struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Address          string          `gorm:"type:varchar(42);not null;unique" json:"address"`
	Creator          string          `gorm:"type:varchar(42);not null;index" json:"creator"`
	Owner            string          `gorm:"type:varchar(42);not null;index" json:"owner"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`
	Symbol           string          `gorm:"type:varchar(32);not null" json:"symbol"`
	Model            string          `gorm:"type:varchar(16);not null" json:"model"`
	BaseURI          string          `gorm:"type:varchar(512)" json:"base_uri"`
	PlaceholderURI   string          `gorm:"type:varchar(512)" json:"placeholder_uri"`
	MintPrice        decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"mint_price"`
	SupplyCeiling    uint64          `gorm:"not null;default:0" json:"supply_ceiling"`
	TotalMinted      uint64          `gorm:"not null;default:0" json:"total_minted"`
	PerWalletCeiling uint64          `gorm:"not null;default:0" json:"per_wallet_ceiling"`
	PerTxCeiling     uint64          `gorm:"not null;default:0" json:"per_tx_ceiling"`
	RoyaltyBps       int64           `gorm:"not null;default:0" json:"royalty_bps"`
	MintingEnabled   bool            `gorm:"not null;default:true" json:"minting_enabled"`
	Revealed         bool            `gorm:"not null;default:false" json:"revealed"`
	Balance          decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"balance"` // withdrawable mint proceeds
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TokenURI resolves the metadata pointer from the reveal flag.
func (c *Collection) TokenURI(tokenID uint64) string {
	if !c.Revealed {
		return c.PlaceholderURI
	}
	return c.BaseURI + strconv.FormatUint(tokenID, 10)
}

// ValidateSequentialMint runs the mint guards in contract order. holdings is
// the recipient's current token count in this collection. Returns the first
// violated guard; the caller only mutates state when this returns nil.
func (c *Collection) ValidateSequentialMint(holdings uint64, payment decimal.Decimal) error {
	if c.Model != ModelSequential {
		return errno.ErrInvalidState
	}
	if !c.MintingEnabled {
		return errno.ErrMintingDisabled
	}
	if payment.LessThan(c.MintPrice) {
		return errno.ErrInsufficientPayment
	}
	if c.TotalMinted >= c.SupplyCeiling {
		return errno.ErrSupplyExhausted
	}
	if c.PerWalletCeiling > 0 && holdings+1 > c.PerWalletCeiling {
		return errno.ErrWalletCeilingReached
	}
	return nil
}

// RarityTier 每个加权集合在每个稀有度上的单价
type RarityTier struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionAddress string          `gorm:"type:varchar(42);not null;uniqueIndex:idx_collection_tier" json:"collection_address"`
	Tier              int16           `gorm:"not null;uniqueIndex:idx_collection_tier" json:"tier"`
	Price             decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"price"`
}

// Character 加权集合中的角色
type Character struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionAddress string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_collection_character" json:"collection_address"`
	CharacterID       uint64    `gorm:"not null;uniqueIndex:idx_collection_character" json:"character_id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt         time.Time `json:"created_at"`
}

// CharacterSupply 角色在单个稀有度上的供应计数
// Invariant: Minted <= MaxSupply, enforced before every balance increment.
type CharacterSupply struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionAddress string `gorm:"type:varchar(42);not null;uniqueIndex:idx_supply_slot" json:"collection_address"`
	CharacterID       uint64 `gorm:"not null;uniqueIndex:idx_supply_slot" json:"character_id"`
	Tier              int16  `gorm:"not null;uniqueIndex:idx_supply_slot" json:"tier"`
	Minted            uint64 `gorm:"not null;default:0" json:"minted"`
	MaxSupply         uint64 `gorm:"not null;default:0" json:"max_supply"`
}

// Available reports whether this slot still has unminted supply.
func (s *CharacterSupply) Available() bool {
	return s.Minted < s.MaxSupply
}

// Token 顺序模型资产 (单一持有者)
type Token struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionAddress string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_collection_token" json:"collection_address"`
	TokenID           uint64    `gorm:"not null;uniqueIndex:idx_collection_token" json:"token_id"`
	Owner             string    `gorm:"type:varchar(42);not null;index" json:"owner"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Holding 加权模型余额 (同一 id 可被多个钱包持有)
type Holding struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionAddress string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_holding" json:"collection_address"`
	Owner             string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_holding" json:"owner"`
	TokenID           uint64    `gorm:"not null;uniqueIndex:idx_holding" json:"token_id"` // CompositeTokenID(character, tier)
	Balance           uint64    `gorm:"not null;default:0" json:"balance"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OperatorApproval 转移授权 (挂单前必须授权市场合约)
type OperatorApproval struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Owner             string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_approval" json:"owner"`
	CollectionAddress string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_approval" json:"collection_address"`
	Operator          string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_approval" json:"operator"`
	Approved          bool      `gorm:"not null;default:false" json:"approved"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Listing 挂单，只翻转状态从不删除 (append-only audit trail)
// ListingKey is derived from (collection, tokenId, seller); Price is the
// total for the original quantity and UnitPrice is fixed at creation as
// floor(price/quantity). Quantity counts the units still unsold.
//
// The key is only indexed, not unique: terminal rows stay behind and the
// same asset can be relisted under the same key. "At most one Active listing
// per key" is enforced at list time (plus a partial unique index in the
// production schema).
type Listing struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingKey        string          `gorm:"type:varchar(66);not null;index" json:"listing_key"`
	CollectionAddress string          `gorm:"type:varchar(42);not null;index" json:"collection_address"`
	TokenID           uint64          `gorm:"not null" json:"token_id"`
	Seller            string          `gorm:"type:varchar(42);not null;index" json:"seller"`
	Model             string          `gorm:"type:varchar(16);not null" json:"model"`
	Price             decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"price"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"unit_price"`
	Quantity          uint64          `gorm:"not null;default:1" json:"quantity"`
	AllowedBuyer      string          `gorm:"type:varchar(42)" json:"allowed_buyer"` // empty = public listing
	Status            string          `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// EnsureActive rejects any transition attempted on a terminal listing.
func (l *Listing) EnsureActive() error {
	if l.Status != ListingStatusActive {
		return errno.ErrInvalidState
	}
	return nil
}

// ValidateBuy runs the buy guards: listing Active, buyer allowed for private
// listings, wanted quantity within the remaining units.
func (l *Listing) ValidateBuy(buyer string, wanted uint64) error {
	if err := l.EnsureActive(); err != nil {
		return err
	}
	if l.AllowedBuyer != "" && l.AllowedBuyer != buyer {
		return errno.ErrUnauthorized
	}
	if wanted == 0 || wanted > l.Quantity {
		return errno.ErrInvalidQuantity
	}
	return nil
}

// ValidateCancel requires the caller to be the seller of an active listing.
func (l *Listing) ValidateCancel(caller string) error {
	if caller != l.Seller {
		return errno.ErrUnauthorized
	}
	return l.EnsureActive()
}

// Account 资金账户 (attached payment = 同一事务内扣减该余额)
type Account struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Address   string          `gorm:"type:varchar(42);not null;unique" json:"address"`
	Balance   decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MarketState 市场存储的配置与手续费账本 (单行, ID=1)
// Owner is the only address allowed to mutate listings or this row; during a
// logic upgrade it temporarily points at the deployer key (ownership
// handshake), which leaves storage inert rather than uncontrolled.
type MarketState struct {
	ID                uint64          `gorm:"primaryKey" json:"id"`
	Owner             string          `gorm:"type:varchar(42);not null" json:"owner"`
	FeeRecipient      string          `gorm:"type:varchar(42);not null" json:"fee_recipient"`
	FeeRateBps        int64           `gorm:"not null;default:250" json:"fee_rate_bps"`
	AccruedFees       decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"accrued_fees"`
	Paused            bool            `gorm:"not null;default:false" json:"paused"`
	RoyaltiesDisabled bool            `gorm:"not null;default:false" json:"royalties_disabled"`
	CreationFee       decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"creation_fee"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// EnsureOwner rejects storage mutations from anyone but the installed owner.
func (m *MarketState) EnsureOwner(caller string) error {
	if caller != m.Owner {
		return errno.ErrUnauthorized
	}
	return nil
}

// TrustedCreator 可信创作者折扣记录 (basis points)
type TrustedCreator struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Address     string    `gorm:"type:varchar(42);not null;unique" json:"address"`
	DiscountBps int64     `gorm:"not null;default:0" json:"discount_bps"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OutboxMessage 本地消息表 (Transactional Outbox)
type OutboxMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic     string    `gorm:"type:varchar(255);not null" json:"topic"`
	Key       string    `gorm:"type:varchar(255)" json:"key"`
	Payload   []byte    `gorm:"type:text;not null" json:"payload"`
	Status    string    `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"` // PENDING, SENT, FAILED
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Collection) TableName() string       { return "collections" }
func (RarityTier) TableName() string       { return "rarity_tiers" }
func (Character) TableName() string        { return "characters" }
func (CharacterSupply) TableName() string  { return "character_supplies" }
func (Token) TableName() string            { return "tokens" }
func (Holding) TableName() string          { return "holdings" }
func (OperatorApproval) TableName() string { return "operator_approvals" }
func (Listing) TableName() string          { return "listings" }
func (Account) TableName() string          { return "accounts" }
func (MarketState) TableName() string      { return "market_state" }
func (TrustedCreator) TableName() string   { return "trusted_creators" }
func (OutboxMessage) TableName() string    { return "outbox_messages" }
