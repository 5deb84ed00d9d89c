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
	"market-core/pkg/errno"
	"market-core/pkg/logger"
	"market-core/pkg/monitor"
)

// CollectionService implements the sequential issuance model and the
// owner-facing collection administration shared by both models.
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// lockCollection 悲观锁读取集合行
func lockCollection(tx *gorm.DB, address string) (*model.Collection, error) {
	var col model.Collection
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// Mint issues the next sequential token to the recipient. Ids start at 1 and
// never repeat or leave gaps: the id is totalMinted+1 and both are written in
// the same transaction that runs the guards.
func (s *CollectionService) Mint(ctx context.Context, collection, to string, payment decimal.Decimal) (uint64, error) {
	var tokenID uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := lockCollection(tx, collection)
		if err != nil {
			return err
		}

		var holdings int64
		if err := tx.Model(&model.Token{}).
			Where("collection_address = ? AND owner = ?", collection, to).
			Count(&holdings).Error; err != nil {
			return err
		}

		if err := col.ValidateSequentialMint(uint64(holdings), payment); err != nil {
			return err
		}

		// Payment moves into the collection's withdrawable balance; only the
		// exact mint price is taken.
		if err := debit(tx, to, col.MintPrice); err != nil {
			return err
		}

		tokenID = col.TotalMinted + 1
		if err := tx.Create(&model.Token{
			CollectionAddress: collection,
			TokenID:           tokenID,
			Owner:             to,
		}).Error; err != nil {
			return err
		}

		col.TotalMinted = tokenID
		col.Balance = col.Balance.Add(col.MintPrice)
		if err := tx.Save(col).Error; err != nil {
			return err
		}

		return appendOutbox(tx, event.TopicTokenMinted, collection, event.TokenMintedEvent{
			Collection: collection,
			TokenID:    tokenID,
			Owner:      to,
			Price:      col.MintPrice.String(),
			MintedAt:   time.Now(),
		})
	})
	if err != nil {
		return 0, err
	}

	monitor.Business.TokensMintedTotal.WithLabelValues(model.ModelSequential).Inc()
	logger.Info("token minted",
		zap.String("collection", collection),
		zap.Uint64("token_id", tokenID),
		zap.String("owner", to))
	return tokenID, nil
}

// Withdraw sweeps the collection's entire mint-proceeds balance to its owner.
// The balance zeroing and the credit commit together; there is no partial
// withdrawal state.
func (s *CollectionService) Withdraw(ctx context.Context, collection, caller string) (decimal.Decimal, error) {
	var swept decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := lockCollection(tx, collection)
		if err != nil {
			return err
		}
		if caller != col.Owner {
			return errno.ErrUnauthorized
		}
		swept = col.Balance
		if swept.IsZero() {
			return nil
		}
		if err := credit(tx, col.Owner, swept); err != nil {
			return err
		}
		col.Balance = decimal.Zero
		return tx.Save(col).Error
	})
	return swept, err
}

// CollectionUpdate holds the owner-mutable knobs. Nil fields are untouched.
// Changes only affect subsequent operations; already-minted assets keep their
// recorded attributes except the resolved metadata pointer.
type CollectionUpdate struct {
	MintPrice      *decimal.Decimal
	MintingEnabled *bool
	Revealed       *bool
	BaseURI        *string
	PlaceholderURI *string
}

// Update applies owner-only setters.
func (s *CollectionService) Update(ctx context.Context, collection, caller string, upd CollectionUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := lockCollection(tx, collection)
		if err != nil {
			return err
		}
		if caller != col.Owner {
			return errno.ErrUnauthorized
		}
		if upd.MintPrice != nil {
			if upd.MintPrice.IsNegative() {
				return errno.ErrConfigurationRejected
			}
			col.MintPrice = *upd.MintPrice
		}
		if upd.MintingEnabled != nil {
			col.MintingEnabled = *upd.MintingEnabled
		}
		if upd.Revealed != nil {
			col.Revealed = *upd.Revealed
		}
		if upd.BaseURI != nil {
			col.BaseURI = *upd.BaseURI
		}
		if upd.PlaceholderURI != nil {
			col.PlaceholderURI = *upd.PlaceholderURI
		}
		return tx.Save(col).Error
	})
}

// SetApprovalForAll grants or revokes an operator's right to move every asset
// the owner holds in the collection. Listing on the marketplace requires this
// approval for the marketplace logic address.
func (s *CollectionService) SetApprovalForAll(ctx context.Context, owner, collection, operator string, approved bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "collection_address"}, {Name: "operator"}},
			DoUpdates: clause.AssignmentColumns([]string{"approved", "updated_at"}),
		}).Create(&model.OperatorApproval{
			Owner:             owner,
			CollectionAddress: collection,
			Operator:          operator,
			Approved:          approved,
			UpdatedAt:         time.Now(),
		}).Error
	})
}

// IsApproved reports whether operator may move owner's assets in collection.
func IsApproved(tx *gorm.DB, owner, collection, operator string) (bool, error) {
	var approval model.OperatorApproval
	err := tx.Where("owner = ? AND collection_address = ? AND operator = ?", owner, collection, operator).
		First(&approval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return approval.Approved, nil
}

// TokenURI resolves a token's metadata pointer from the reveal flag.
func (s *CollectionService) TokenURI(ctx context.Context, collection string, tokenID uint64) (string, error) {
	var col model.Collection
	err := s.db.WithContext(ctx).Where("address = ?", collection).First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errno.ErrCollectionNotFound
	}
	if err != nil {
		return "", err
	}

	var token model.Token
	err = s.db.WithContext(ctx).
		Where("collection_address = ? AND token_id = ?", collection, tokenID).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errno.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return col.TokenURI(tokenID), nil
}
