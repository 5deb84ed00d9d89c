package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"market-core/internal/model"
	"market-core/pkg/cache"
	"market-core/pkg/errno"
)

// QueryService serves the read-only surface consumed by the front end:
// listings, the collection registry and per-collection floor aggregation.
// Reads go through the multi-level cache with a short TTL; the data is
// reconstructible from events anyway, so slightly stale reads are fine.
type QueryService struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

func NewQueryService(db *gorm.DB, c cache.Cache) *QueryService {
	return &QueryService{db: db, cache: c, ttl: 10 * time.Second}
}

// GetListing returns the latest listing row for a key.
func (s *QueryService) GetListing(ctx context.Context, listingKey string) (*model.Listing, error) {
	cacheKey := "listing:" + listingKey
	var cached model.Listing
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var listing model.Listing
	err := s.db.WithContext(ctx).
		Where("listing_key = ?", listingKey).
		Order("id DESC").
		First(&listing).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errno.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, listing, s.ttl)
	return &listing, nil
}

// GetListings returns a collection's listings, optionally filtered by status.
func (s *QueryService) GetListings(ctx context.Context, collection, status string) ([]model.Listing, error) {
	q := s.db.WithContext(ctx).Where("collection_address = ?", collection)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var listings []model.Listing
	if err := q.Order("id DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// GetCollections returns the full append-only registry.
func (s *QueryService) GetCollections(ctx context.Context) ([]model.Collection, error) {
	cacheKey := "collections"
	var cached []model.Collection
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var cols []model.Collection
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&cols).Error; err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, cols, s.ttl)
	return cols, nil
}

// FloorListing returns the cheapest active listing of a collection by unit
// price, or NotFound when nothing is listed.
func (s *QueryService) FloorListing(ctx context.Context, collection string) (*model.Listing, error) {
	cacheKey := "floor:" + collection
	var cached model.Listing
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var listing model.Listing
	err := s.db.WithContext(ctx).
		Where("collection_address = ? AND status = ?", collection, model.ListingStatusActive).
		Order("unit_price ASC").
		First(&listing).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errno.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, listing, s.ttl)
	return &listing, nil
}
