package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-core/internal/model"
	"market-core/pkg/errno"
	"market-core/pkg/fees"
	"market-core/pkg/logger"

	"go.uber.org/zap"
)

// StorageService is the owner-controlled state container behind the
// marketplace: the listing table and the fee ledger. Every mutator verifies
// the caller against the installed owner, so only the currently-authorized
// logic layer (or, mid-handshake, the deployer) can touch durable state.
//
// The tx-scoped methods take the surrounding gorm transaction so a logic
// transition and its storage writes commit atomically.
type StorageService struct {
	db *gorm.DB
}

func NewStorageService(db *gorm.DB) *StorageService {
	return &StorageService{db: db}
}

// Bootstrap installs the single market_state row if missing. The initial
// owner is the logic address; the fee recipient starts as the deployer.
func (s *StorageService) Bootstrap(ctx context.Context, logicAddr, deployerAddr string, creationFee decimal.Decimal, feeRateBps int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var state model.MarketState
		err := tx.First(&state, "id = ?", 1).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := fees.ValidateFeeRate(feeRateBps); err != nil {
			return err
		}
		state = model.MarketState{
			ID:           1,
			Owner:        logicAddr,
			FeeRecipient: deployerAddr,
			FeeRateBps:   feeRateBps,
			AccruedFees:  decimal.Zero,
			CreationFee:  creationFee,
		}
		logger.Info("market storage bootstrapped",
			zap.String("owner", logicAddr),
			zap.String("fee_recipient", deployerAddr))
		return tx.Create(&state).Error
	})
}

// LockState 悲观锁读取 market_state 单行
func (s *StorageService) LockState(tx *gorm.DB) (*model.MarketState, error) {
	var state model.MarketState
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&state, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// State returns the configuration row without locking (read path).
func (s *StorageService) State(ctx context.Context) (*model.MarketState, error) {
	var state model.MarketState
	if err := s.db.WithContext(ctx).First(&state, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// CreateListing appends a listing row. Owner-gated, tx-scoped.
func (s *StorageService) CreateListing(tx *gorm.DB, caller string, listing *model.Listing) error {
	state, err := s.LockState(tx)
	if err != nil {
		return err
	}
	if err := state.EnsureOwner(caller); err != nil {
		return err
	}
	return tx.Create(listing).Error
}

// LockListing 悲观锁读取挂单 (最新一条)
// The latest row for a key is the live one; older rows are terminal audit
// entries, so buying or canceling a long-settled listing still surfaces
// InvalidState rather than NotFound.
func (s *StorageService) LockListing(tx *gorm.DB, listingKey string) (*model.Listing, error) {
	var listing model.Listing
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("listing_key = ?", listingKey).
		Order("id DESC").
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListingStatus flips a listing into a terminal state. Listings are
// never deleted; the row stays behind as the audit trail.
func (s *StorageService) UpdateListingStatus(tx *gorm.DB, caller string, listing *model.Listing, status string) error {
	state, err := s.LockState(tx)
	if err != nil {
		return err
	}
	if err := state.EnsureOwner(caller); err != nil {
		return err
	}
	listing.Status = status
	return tx.Save(listing).Error
}

// UpdateListingQuantityAndPrice rewrites the economic fields of a listing.
func (s *StorageService) UpdateListingQuantityAndPrice(tx *gorm.DB, caller string, listing *model.Listing, price, unitPrice decimal.Decimal, quantity uint64) error {
	state, err := s.LockState(tx)
	if err != nil {
		return err
	}
	if err := state.EnsureOwner(caller); err != nil {
		return err
	}
	listing.Price = price
	listing.UnitPrice = unitPrice
	listing.Quantity = quantity
	return tx.Save(listing).Error
}

// AccrueFees adds a settled marketplace fee to the ledger. The accumulator
// only ever resets through WithdrawFees.
func (s *StorageService) AccrueFees(tx *gorm.DB, caller string, amount decimal.Decimal) error {
	state, err := s.LockState(tx)
	if err != nil {
		return err
	}
	if err := state.EnsureOwner(caller); err != nil {
		return err
	}
	state.AccruedFees = state.AccruedFees.Add(amount)
	return tx.Save(state).Error
}

// SetFeeRate bounds the marketplace fee at the hard ceiling so a
// configuration change between listing and sale can never strip sellers
// beyond it (rates are applied at settlement time, see market_service).
func (s *StorageService) SetFeeRate(ctx context.Context, caller string, bps int64) error {
	if err := fees.ValidateFeeRate(bps); err != nil {
		return err
	}
	return s.mutateState(ctx, caller, func(state *model.MarketState) error {
		state.FeeRateBps = bps
		return nil
	})
}

func (s *StorageService) SetPaused(ctx context.Context, caller string, paused bool) error {
	return s.mutateState(ctx, caller, func(state *model.MarketState) error {
		state.Paused = paused
		return nil
	})
}

func (s *StorageService) SetRoyaltiesDisabled(ctx context.Context, caller string, disabled bool) error {
	return s.mutateState(ctx, caller, func(state *model.MarketState) error {
		state.RoyaltiesDisabled = disabled
		return nil
	})
}

func (s *StorageService) SetCreationFee(ctx context.Context, caller string, fee decimal.Decimal) error {
	if fee.IsNegative() {
		return errno.ErrConfigurationRejected
	}
	return s.mutateState(ctx, caller, func(state *model.MarketState) error {
		state.CreationFee = fee
		return nil
	})
}

func (s *StorageService) SetFeeRecipient(ctx context.Context, caller string, recipient string) error {
	return s.mutateState(ctx, caller, func(state *model.MarketState) error {
		state.FeeRecipient = recipient
		return nil
	})
}

// SetTrustedCreatorDiscount upserts a creator's creation-fee discount.
func (s *StorageService) SetTrustedCreatorDiscount(ctx context.Context, caller string, creator string, discountBps int64) error {
	if err := fees.ValidateDiscount(discountBps); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.LockState(tx)
		if err != nil {
			return err
		}
		if err := state.EnsureOwner(caller); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"discount_bps", "updated_at"}),
		}).Create(&model.TrustedCreator{
			Address:     creator,
			DiscountBps: discountBps,
			UpdatedAt:   time.Now(),
		}).Error
	})
}

// WithdrawFees sweeps the whole accrued balance to the recipient and zeroes
// the accumulator in the same transaction.
func (s *StorageService) WithdrawFees(ctx context.Context, caller string) (decimal.Decimal, error) {
	var swept decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.LockState(tx)
		if err != nil {
			return err
		}
		if err := state.EnsureOwner(caller); err != nil {
			return err
		}
		swept = state.AccruedFees
		if swept.IsZero() {
			return nil
		}
		if err := credit(tx, state.FeeRecipient, swept); err != nil {
			return err
		}
		state.AccruedFees = decimal.Zero
		return tx.Save(state).Error
	})
	return swept, err
}

// TransferOwnership hands storage control to the next owner. This is the
// handshake primitive: logic -> deployer, then deployer -> new logic. While
// the deployer holds ownership the running logic layer is locked out, which
// keeps storage inert rather than uncontrolled.
func (s *StorageService) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	return s.mutateState(ctx, caller, func(state *model.MarketState) error {
		logger.Info("storage ownership transferred",
			zap.String("from", state.Owner),
			zap.String("to", newOwner))
		state.Owner = newOwner
		return nil
	})
}

func (s *StorageService) mutateState(ctx context.Context, caller string, mutate func(*model.MarketState) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.LockState(tx)
		if err != nil {
			return err
		}
		if err := state.EnsureOwner(caller); err != nil {
			return err
		}
		if err := mutate(state); err != nil {
			return err
		}
		return tx.Save(state).Error
	})
}
