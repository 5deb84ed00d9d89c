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
	"market-core/pkg/draw"
	"market-core/pkg/entropy"
	"market-core/pkg/errno"
	"market-core/pkg/logger"
	"market-core/pkg/monitor"
)

// CharacterService implements the weighted multi-supply issuance model:
// characters registered per collection, four rarity tiers each with an
// independent price and supply pool, and pseudo-random supply-bounded
// selection on mint.
type CharacterService struct {
	db      *gorm.DB
	entropy entropy.Source
}

func NewCharacterService(db *gorm.DB, src entropy.Source) *CharacterService {
	return &CharacterService{db: db, entropy: src}
}

// AddCharacter registers a character with an independent max supply per tier.
// Owner-only; duplicate character ids are rejected.
func (s *CharacterService) AddCharacter(ctx context.Context, collection, caller string, characterID uint64, name string, maxPerTier [model.NumTiers]uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := lockCollection(tx, collection)
		if err != nil {
			return err
		}
		if col.Model != model.ModelWeighted {
			return errno.ErrInvalidState
		}
		if caller != col.Owner {
			return errno.ErrUnauthorized
		}

		var count int64
		if err := tx.Model(&model.Character{}).
			Where("collection_address = ? AND character_id = ?", collection, characterID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errno.ErrDuplicateCharacter
		}

		if err := tx.Create(&model.Character{
			CollectionAddress: collection,
			CharacterID:       characterID,
			Name:              name,
		}).Error; err != nil {
			return err
		}

		for tier := int16(0); tier < model.NumTiers; tier++ {
			if err := tx.Create(&model.CharacterSupply{
				CollectionAddress: collection,
				CharacterID:       characterID,
				Tier:              tier,
				Minted:            0,
				MaxSupply:         maxPerTier[tier],
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MintWeighted mints quantity units from the given tier. The whole call is
// all-or-nothing: availability for every unit is verified before any funds
// move, so a sold-out tier aborts without retaining payment. Character
// selection per unit filters to slots with remaining supply and draws an
// index from keccak(entropy || caller || counter); the filtering read and the
// counter increment live in the same transaction, so concurrent calls can
// never both consume the last slot.
func (s *CharacterService) MintWeighted(ctx context.Context, collection, to string, tier int16, quantity uint64, payment decimal.Decimal) ([]uint64, error) {
	if tier < 0 || tier >= model.NumTiers {
		return nil, errno.ErrBind
	}
	if quantity == 0 {
		return nil, errno.ErrInvalidQuantity
	}

	var units []uint64
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := lockCollection(tx, collection)
		if err != nil {
			return err
		}
		if col.Model != model.ModelWeighted {
			return errno.ErrInvalidState
		}
		if !col.MintingEnabled {
			return errno.ErrMintingDisabled
		}
		if col.PerTxCeiling > 0 && quantity > col.PerTxCeiling {
			return errno.ErrInvalidQuantity
		}

		var tierRow model.RarityTier
		if err := tx.Where("collection_address = ? AND tier = ?", collection, tier).
			First(&tierRow).Error; err != nil {
			return err
		}
		total = tierRow.Price.Mul(decimal.NewFromUint64(quantity))
		if payment.LessThan(total) {
			return errno.ErrInsufficientPayment
		}

		// Lock the whole tier's supply rows for the duration of the draw.
		var supplies []model.CharacterSupply
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection_address = ? AND tier = ?", collection, tier).
			Order("character_id ASC").
			Find(&supplies).Error; err != nil {
			return err
		}

		var remaining uint64
		for i := range supplies {
			remaining += supplies[i].MaxSupply - supplies[i].Minted
		}
		if remaining < quantity {
			return errno.ErrSupplyExhausted
		}

		seed, err := s.entropy.Entropy()
		if err != nil {
			return err
		}

		units = make([]uint64, 0, quantity)
		for counter := uint64(0); counter < quantity; counter++ {
			available := make([]int, 0, len(supplies))
			for i := range supplies {
				if supplies[i].Available() {
					available = append(available, i)
				}
			}
			idx, err := draw.Select(len(available), draw.Seed(seed, to, counter))
			if err != nil {
				return err
			}
			slot := &supplies[available[idx]]
			slot.Minted++
			units = append(units, model.CompositeTokenID(slot.CharacterID, tier))
		}

		if err := debit(tx, to, total); err != nil {
			return err
		}

		for i := range supplies {
			if err := tx.Save(&supplies[i]).Error; err != nil {
				return err
			}
		}

		for _, unit := range units {
			if err := addHolding(tx, collection, to, unit, 1); err != nil {
				return err
			}
		}

		col.Balance = col.Balance.Add(total)
		if err := tx.Save(col).Error; err != nil {
			return err
		}

		return appendOutbox(tx, event.TopicCharacterMinted, collection, event.CharacterMintedEvent{
			Collection: collection,
			Owner:      to,
			Tier:       tier,
			Units:      units,
			Price:      total.String(),
			MintedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	monitor.Business.TokensMintedTotal.WithLabelValues(model.ModelWeighted).Add(float64(quantity))
	logger.Info("characters minted",
		zap.String("collection", collection),
		zap.String("owner", to),
		zap.Int16("tier", tier),
		zap.Uint64("quantity", quantity))
	return units, nil
}

// addHolding 增加余额，行不存在则创建
func addHolding(tx *gorm.DB, collection, owner string, tokenID uint64, amount uint64) error {
	var holding model.Holding
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("collection_address = ? AND owner = ? AND token_id = ?", collection, owner, tokenID).
		First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.Holding{
			CollectionAddress: collection,
			Owner:             owner,
			TokenID:           tokenID,
			Balance:           amount,
		}).Error
	}
	if err != nil {
		return err
	}
	holding.Balance += amount
	return tx.Save(&holding).Error
}

// removeHolding 扣减余额，不足则 InsufficientBalance
func removeHolding(tx *gorm.DB, collection, owner string, tokenID uint64, amount uint64) error {
	var holding model.Holding
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("collection_address = ? AND owner = ? AND token_id = ?", collection, owner, tokenID).
		First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errno.ErrInsufficientBalance
	}
	if err != nil {
		return err
	}
	if holding.Balance < amount {
		return errno.ErrInsufficientBalance
	}
	holding.Balance -= amount
	return tx.Save(&holding).Error
}

// holdingBalance 查询当前余额
func holdingBalance(tx *gorm.DB, collection, owner string, tokenID uint64) (uint64, error) {
	var holding model.Holding
	err := tx.Where("collection_address = ? AND owner = ? AND token_id = ?", collection, owner, tokenID).
		First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return holding.Balance, nil
}
