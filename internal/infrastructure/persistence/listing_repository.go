package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dromsync/backend/internal/domain/listing"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormListingRepository implements listing.Repository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GORM-based listing repository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing with its images by primary id
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var l listing.Listing
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return &l, nil
}

// FindByKey finds the single listing matching the natural key. A nil
// selector matches only a NULL column, never any value.
func (r *GormListingRepository) FindByKey(ctx context.Context, key listing.Key) (*listing.Listing, error) {
	key = key.Normalize()

	q := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("product_id = ? AND profile_id = ? AND kit = ?", key.ProductID, key.ProfileID, key.Kit)
	q = whereNullableUUID(q, "offer_const", key.OfferConst)
	q = whereNullableUUID(q, "variation_const", key.VariationConst)
	q = whereNullableUUID(q, "modification_const", key.ModificationConst)

	var l listing.Listing
	if err := q.First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing by key: %w", err)
	}
	return &l, nil
}

// FindAllByProduct finds every listing referencing a catalog product
func (r *GormListingRepository) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]listing.Listing, error) {
	var ls []listing.Listing
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("product_id = ?", productID).
		Find(&ls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find listings by product: %w", err)
	}
	return ls, nil
}

// FindAllByProductEvent finds every listing whose product currently points at
// the given product event
func (r *GormListingRepository) FindAllByProductEvent(ctx context.Context, productEventID uuid.UUID) ([]listing.Listing, error) {
	var ls []listing.Listing
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = drom_listings.product_id").
		Where("products.current_event_id = ?", productEventID).
		Find(&ls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find listings by product event: %w", err)
	}
	return ls, nil
}

// FindAllByProfile finds all listings of a profile
func (r *GormListingRepository) FindAllByProfile(ctx context.Context, profileID uuid.UUID) ([]listing.Listing, error) {
	var ls []listing.Listing
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("profile_id = ?", profileID).
		Find(&ls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find listings by profile: %w", err)
	}
	return ls, nil
}

// Save persists the listing together with its image children
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(l).Error
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// SaveBatch persists multiple listings inside one transaction
func (r *GormListingRepository) SaveBatch(ctx context.Context, ls []*listing.Listing) error {
	if len(ls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range ls {
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(l).Error; err != nil {
				return fmt.Errorf("failed to save listing in batch: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the listing and explicitly removes its images in a single
// transaction
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&listing.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete listing images: %w", err)
		}

		result := tx.Delete(&listing.Listing{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete listing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// whereNullableUUID constrains a nullable selector column: nil matches NULL
// only, a value matches that value only
func whereNullableUUID(q *gorm.DB, column string, value *uuid.UUID) *gorm.DB {
	if value == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *value)
}

// Ensure GormListingRepository implements listing.Repository
var _ listing.Repository = (*GormListingRepository)(nil)
