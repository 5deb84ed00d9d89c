package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"market-core/internal/event"
	"market-core/internal/model"
	"market-core/pkg/crypto_util"
	"market-core/pkg/errno"
	"market-core/pkg/fees"
	"market-core/pkg/logger"
	"market-core/pkg/monitor"
)

// CreateCollectionParams carries everything the factory needs to deploy a
// collection on behalf of a creator.
type CreateCollectionParams struct {
	Name             string
	Symbol           string
	Model            string // sequential | weighted
	BaseURI          string
	PlaceholderURI   string
	MintPrice        decimal.Decimal // sequential model
	TierPrices       [model.NumTiers]decimal.Decimal
	SupplyCeiling    uint64 // sequential model, fixed forever at creation
	PerWalletCeiling uint64
	PerTxCeiling     uint64 // weighted model, per-call unit ceiling
	RoyaltyBps       int64
	MintingEnabled   bool
	Revealed         bool
}

// FactoryService creates collections, collects the (possibly discounted)
// creation fee and maintains the append-only registry.
type FactoryService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewFactoryService(db *gorm.DB, storage *StorageService) *FactoryService {
	return &FactoryService{db: db, storage: storage}
}

// CreateCollection deploys a new collection owned by the creator. The whole
// call is one transaction: insufficient payment rejects everything and
// nothing is created.
func (s *FactoryService) CreateCollection(ctx context.Context, creator string, payment decimal.Decimal, params CreateCollectionParams) (*model.Collection, error) {
	if params.Model != model.ModelSequential && params.Model != model.ModelWeighted {
		return nil, errno.ErrBind
	}
	if err := fees.ValidateRoyaltyRate(params.RoyaltyBps); err != nil {
		return nil, err
	}

	var created *model.Collection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.storage.LockState(tx)
		if err != nil {
			return err
		}

		// Creation fee, reduced multiplicatively by the creator's discount
		// record if one exists. Never below zero.
		effectiveFee := state.CreationFee
		var trusted model.TrustedCreator
		err = tx.Where("address = ?", creator).First(&trusted).Error
		if err == nil {
			effectiveFee = fees.Discounted(state.CreationFee, trusted.DiscountBps)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if payment.LessThan(effectiveFee) {
			return errno.ErrInsufficientPayment
		}
		if err := debit(tx, creator, effectiveFee); err != nil {
			return err
		}
		if err := credit(tx, state.FeeRecipient, effectiveFee); err != nil {
			return err
		}

		// Registry nonce = number of collections created so far.
		var nonce int64
		if err := tx.Model(&model.Collection{}).Count(&nonce).Error; err != nil {
			return err
		}
		address := crypto_util.DeriveCollectionAddress(creator, uint64(nonce))

		col := model.Collection{
			Address:          address,
			Creator:          creator,
			Owner:            creator,
			Name:             params.Name,
			Symbol:           params.Symbol,
			Model:            params.Model,
			BaseURI:          params.BaseURI,
			PlaceholderURI:   params.PlaceholderURI,
			MintPrice:        params.MintPrice,
			SupplyCeiling:    params.SupplyCeiling,
			PerWalletCeiling: params.PerWalletCeiling,
			PerTxCeiling:     params.PerTxCeiling,
			RoyaltyBps:       params.RoyaltyBps,
			MintingEnabled:   params.MintingEnabled,
			Revealed:         params.Revealed,
			Balance:          decimal.Zero,
		}
		if err := tx.Create(&col).Error; err != nil {
			return err
		}

		if params.Model == model.ModelWeighted {
			for tier := int16(0); tier < model.NumTiers; tier++ {
				if err := tx.Create(&model.RarityTier{
					CollectionAddress: address,
					Tier:              tier,
					Price:             params.TierPrices[tier],
				}).Error; err != nil {
					return err
				}
			}
		}

		created = &col
		return appendOutbox(tx, event.TopicCollectionCreated, address, event.CollectionCreatedEvent{
			Creator:    creator,
			Collection: address,
			Name:       params.Name,
			Symbol:     params.Symbol,
			Model:      params.Model,
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	monitor.Business.CollectionsCreatedTotal.Inc()
	logger.Info("collection created",
		zap.String("creator", creator),
		zap.String("address", created.Address),
		zap.String("model", created.Model))
	return created, nil
}

// GetCollection resolves a registry entry by address.
func (s *FactoryService) GetCollection(ctx context.Context, address string) (*model.Collection, error) {
	var col model.Collection
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}
