package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-core/internal/event"
	"market-core/internal/model"
	"market-core/pkg/crypto_util"
	"market-core/pkg/errno"
	"market-core/pkg/fees"
	"market-core/pkg/logger"
	"market-core/pkg/monitor"
)

// MarketService is the marketplace logic layer. It is the sole writer of
// marketplace storage: every mutation goes through the storage service with
// the logic address as caller, so storage only obeys this layer while the
// ownership handshake has it installed as owner.
//
// Every operation is one database transaction. Any guard failure rolls the
// whole transition back: no partial fund movement, no partial counter
// increment, the listing untouched.
type MarketService struct {
	db        *gorm.DB
	storage   *StorageService
	logicAddr string
	deployer  string
}

func NewMarketService(db *gorm.DB, storage *StorageService, logicAddr, deployer string) *MarketService {
	return &MarketService{db: db, storage: storage, logicAddr: logicAddr, deployer: deployer}
}

// LogicAddress is the operator identity sellers must approve before listing.
func (s *MarketService) LogicAddress() string {
	return s.logicAddr
}

// List creates an Active listing for quantity units of (collection, tokenId)
// at the given total price. The seller must currently hold the asset(s) and
// have approved the marketplace as transfer operator; assets stay in the
// seller's wallet (escrow by approval, not by custody).
func (s *MarketService) List(ctx context.Context, seller, collection string, tokenID uint64, price decimal.Decimal, quantity uint64, allowedBuyer string) (*model.Listing, error) {
	if err := fees.ValidateListingPrice(price, quantity); err != nil {
		return nil, err
	}

	var listing *model.Listing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.storage.LockState(tx)
		if err != nil {
			return err
		}
		if state.Paused {
			return errno.ErrMarketPaused
		}

		col, err := lockCollection(tx, collection)
		if err != nil {
			return err
		}
		if col.Model == model.ModelSequential && quantity != 1 {
			return errno.ErrInvalidQuantity
		}

		if err := s.ensureHolds(tx, col, seller, tokenID, quantity); err != nil {
			return err
		}

		approved, err := IsApproved(tx, seller, collection, s.logicAddr)
		if err != nil {
			return err
		}
		if !approved {
			return errno.ErrNotApproved
		}

		key := crypto_util.DeriveListingKey(collection, tokenID, seller)
		var active int64
		if err := tx.Model(&model.Listing{}).
			Where("listing_key = ? AND status = ?", key, model.ListingStatusActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return errno.ErrDuplicateListing
		}

		listing = &model.Listing{
			ListingKey:        key,
			CollectionAddress: collection,
			TokenID:           tokenID,
			Seller:            seller,
			Model:             col.Model,
			Price:             price,
			UnitPrice:         fees.UnitPrice(price, quantity),
			Quantity:          quantity,
			AllowedBuyer:      allowedBuyer,
			Status:            model.ListingStatusActive,
		}
		if err := s.storage.CreateListing(tx, s.logicAddr, listing); err != nil {
			return err
		}

		return appendOutbox(tx, event.TopicListingCreated, collection, event.ListingCreatedEvent{
			ListingKey:   key,
			Collection:   collection,
			TokenID:      tokenID,
			Seller:       seller,
			Price:        price.String(),
			Quantity:     quantity,
			AllowedBuyer: allowedBuyer,
			ListedAt:     time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	monitor.Business.ListingsCreatedTotal.Inc()
	logger.Info("listing created",
		zap.String("key", listing.ListingKey),
		zap.String("collection", collection),
		zap.String("seller", seller))
	return listing, nil
}

// Buy settles a sale. due = unitPrice × quantityWanted; the fee and royalty
// rates current at settlement time are applied, split with floor division,
// and the three parts always sum to the amount paid. Asset transfer, fund
// movement, fee accrual and the status flip commit in one transaction.
func (s *MarketService) Buy(ctx context.Context, buyer, listingKey string, quantityWanted uint64, payment decimal.Decimal) (*event.SaleSettledEvent, error) {
	var settled event.SaleSettledEvent
	var due, marketFee decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.storage.LockState(tx)
		if err != nil {
			return err
		}
		if state.Paused {
			return errno.ErrMarketPaused
		}

		listing, err := s.storage.LockListing(tx, listingKey)
		if err != nil {
			return err
		}
		if quantityWanted == 0 {
			quantityWanted = listing.Quantity
		}
		if err := listing.ValidateBuy(buyer, quantityWanted); err != nil {
			return err
		}

		col, err := lockCollection(tx, listing.CollectionAddress)
		if err != nil {
			return err
		}

		// The seller may have moved or de-approved the asset since listing;
		// both make the transfer impossible, so the buy is rejected whole.
		if err := s.ensureHolds(tx, col, listing.Seller, listing.TokenID, quantityWanted); err != nil {
			return err
		}
		approved, err := IsApproved(tx, listing.Seller, listing.CollectionAddress, s.logicAddr)
		if err != nil {
			return err
		}
		if !approved {
			return errno.ErrNotApproved
		}

		due = listing.UnitPrice.Mul(decimal.NewFromUint64(quantityWanted))
		if payment.LessThan(due) {
			return errno.ErrInsufficientPayment
		}

		var royalty, sellerProceeds decimal.Decimal
		royalty, marketFee, sellerProceeds = fees.Split(due, state.FeeRateBps, col.RoyaltyBps, state.RoyaltiesDisabled)

		// The rate validators already bound royalty+fee below the full
		// amount, but rates are re-read at settlement time, so the invariant
		// is enforced here too: the seller is never charged for being sold.
		if sellerProceeds.IsNegative() {
			return errno.ErrConfigurationRejected
		}

		// Only the exact amount due is debited; overpayment never leaves
		// the buyer. Seller and royalty recipient are paid directly, the
		// marketplace fee is held in the ledger until withdrawn.
		if err := debit(tx, buyer, due); err != nil {
			return err
		}
		if err := credit(tx, listing.Seller, sellerProceeds); err != nil {
			return err
		}
		if err := credit(tx, col.Creator, royalty); err != nil {
			return err
		}
		if err := s.storage.AccrueFees(tx, s.logicAddr, marketFee); err != nil {
			return err
		}

		if err := s.transfer(tx, col, listing.Seller, buyer, listing.TokenID, quantityWanted); err != nil {
			return err
		}

		remaining := listing.Quantity - quantityWanted
		if err := s.storage.UpdateListingQuantityAndPrice(tx, s.logicAddr, listing, listing.Price, listing.UnitPrice, remaining); err != nil {
			return err
		}
		if remaining == 0 {
			if err := s.storage.UpdateListingStatus(tx, s.logicAddr, listing, model.ListingStatusSold); err != nil {
				return err
			}
		}

		settled = event.SaleSettledEvent{
			ListingKey:     listingKey,
			Collection:     listing.CollectionAddress,
			TokenID:        listing.TokenID,
			Seller:         listing.Seller,
			Buyer:          buyer,
			Quantity:       quantityWanted,
			Price:          due.String(),
			Royalty:        royalty.String(),
			MarketFee:      marketFee.String(),
			SellerProceeds: sellerProceeds.String(),
			Remaining:      remaining,
			SettledAt:      time.Now(),
		}

		return appendOutbox(tx, event.TopicSaleSettled, listing.CollectionAddress, settled)
	})
	if err != nil {
		return nil, err
	}

	monitorSale(due, marketFee)
	logger.Info("sale settled",
		zap.String("key", listingKey),
		zap.String("buyer", buyer),
		zap.String("price", settled.Price))
	return &settled, nil
}

// Cancel flips an Active listing to Canceled. Seller-only; no funds move.
func (s *MarketService) Cancel(ctx context.Context, caller, listingKey string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.storage.LockListing(tx, listingKey)
		if err != nil {
			return err
		}
		if err := listing.ValidateCancel(caller); err != nil {
			return err
		}
		if err := s.storage.UpdateListingStatus(tx, s.logicAddr, listing, model.ListingStatusCanceled); err != nil {
			return err
		}
		return appendOutbox(tx, event.TopicListingCanceled, listing.CollectionAddress, event.ListingCanceledEvent{
			ListingKey: listingKey,
			Collection: listing.CollectionAddress,
			TokenID:    listing.TokenID,
			Seller:     listing.Seller,
			CanceledAt: time.Now(),
		})
	})
	if err != nil {
		return err
	}
	logger.Info("listing canceled", zap.String("key", listingKey))
	return nil
}

// UpdateListingQuantityAndPrice rewrites an Active listing's economics.
// Seller-only; the new quantity must not exceed what the seller still holds.
func (s *MarketService) UpdateListingQuantityAndPrice(ctx context.Context, caller, listingKey string, price decimal.Decimal, quantity uint64) error {
	if err := fees.ValidateListingPrice(price, quantity); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.storage.LockListing(tx, listingKey)
		if err != nil {
			return err
		}
		if caller != listing.Seller {
			return errno.ErrUnauthorized
		}
		if err := listing.EnsureActive(); err != nil {
			return err
		}
		if listing.Model == model.ModelSequential && quantity != 1 {
			return errno.ErrInvalidQuantity
		}

		col, err := lockCollection(tx, listing.CollectionAddress)
		if err != nil {
			return err
		}
		if err := s.ensureHolds(tx, col, listing.Seller, listing.TokenID, quantity); err != nil {
			return err
		}

		unit := fees.UnitPrice(price, quantity)
		if err := s.storage.UpdateListingQuantityAndPrice(tx, s.logicAddr, listing, price, unit, quantity); err != nil {
			return err
		}
		return appendOutbox(tx, event.TopicListingUpdated, listing.CollectionAddress, event.ListingUpdatedEvent{
			ListingKey: listingKey,
			Collection: listing.CollectionAddress,
			Seller:     listing.Seller,
			Price:      price.String(),
			Quantity:   quantity,
			UpdatedAt:  time.Now(),
		})
	})
}

// ReleaseStorage is handshake step 1: the admin instructs the running logic
// layer to hand storage ownership to the deployer key.
func (s *MarketService) ReleaseStorage(ctx context.Context, caller string) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.TransferOwnership(ctx, s.logicAddr, s.deployer)
}

// InstallLogic is handshake step 3: the deployer installs the next logic
// address as storage owner. Skipping this step leaves storage inert (only
// the deployer can touch it), never uncontrolled.
func (s *MarketService) InstallLogic(ctx context.Context, caller, newLogic string) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.TransferOwnership(ctx, s.deployer, newLogic)
}

// Admin forwards: the platform admin (deployer) drives configuration through
// the logic layer, which calls storage under its own identity. Once the
// handshake has moved ownership away, these fail Unauthorized.

func (s *MarketService) AdminSetFeeRate(ctx context.Context, caller string, bps int64) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.SetFeeRate(ctx, s.logicAddr, bps)
}

func (s *MarketService) AdminSetPaused(ctx context.Context, caller string, paused bool) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.SetPaused(ctx, s.logicAddr, paused)
}

func (s *MarketService) AdminSetRoyaltiesDisabled(ctx context.Context, caller string, disabled bool) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.SetRoyaltiesDisabled(ctx, s.logicAddr, disabled)
}

func (s *MarketService) AdminSetCreationFee(ctx context.Context, caller string, fee decimal.Decimal) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.SetCreationFee(ctx, s.logicAddr, fee)
}

func (s *MarketService) AdminSetFeeRecipient(ctx context.Context, caller, recipient string) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.SetFeeRecipient(ctx, s.logicAddr, recipient)
}

func (s *MarketService) AdminSetTrustedCreator(ctx context.Context, caller, creator string, discountBps int64) error {
	if caller != s.deployer {
		return errno.ErrUnauthorized
	}
	return s.storage.SetTrustedCreatorDiscount(ctx, s.logicAddr, creator, discountBps)
}

func (s *MarketService) AdminWithdrawFees(ctx context.Context, caller string) (decimal.Decimal, error) {
	if caller != s.deployer {
		return decimal.Zero, errno.ErrUnauthorized
	}
	return s.storage.WithdrawFees(ctx, s.logicAddr)
}

// ensureHolds verifies the seller can actually deliver quantity units.
func (s *MarketService) ensureHolds(tx *gorm.DB, col *model.Collection, holder string, tokenID, quantity uint64) error {
	if col.Model == model.ModelSequential {
		var token model.Token
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection_address = ? AND token_id = ?", col.Address, tokenID).
			First(&token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errno.ErrNotFound
		}
		if err != nil {
			return err
		}
		if token.Owner != holder {
			return errno.ErrInsufficientBalance
		}
		return nil
	}

	balance, err := holdingBalance(tx, col.Address, holder, tokenID)
	if err != nil {
		return err
	}
	if balance < quantity {
		return errno.ErrInsufficientBalance
	}
	return nil
}

// transfer moves the sold units from seller to buyer.
func (s *MarketService) transfer(tx *gorm.DB, col *model.Collection, from, to string, tokenID, quantity uint64) error {
	if col.Model == model.ModelSequential {
		var token model.Token
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection_address = ? AND token_id = ?", col.Address, tokenID).
			First(&token).Error; err != nil {
			return err
		}
		if token.Owner != from {
			return errno.ErrInsufficientBalance
		}
		token.Owner = to
		return tx.Save(&token).Error
	}

	if err := removeHolding(tx, col.Address, from, tokenID, quantity); err != nil {
		return err
	}
	return addHolding(tx, col.Address, to, tokenID, quantity)
}

func monitorSale(due, fee decimal.Decimal) {
	monitor.Business.SalesSettledTotal.Inc()
	monitor.Business.SaleVolumeTotal.Add(due.InexactFloat64())
	monitor.Business.FeesAccruedTotal.Add(fee.InexactFloat64())
}
