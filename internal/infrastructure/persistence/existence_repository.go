package persistence

import (
	"context"
	"fmt"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLExistenceChecker implements catalog.ProductExistenceChecker with plain
// SQL. The check walks the containment chain product, offer, variation,
// modification against the product's current event; the first missing link
// answers false, a listing without a deeper selector stops at the level it
// has.
type SQLExistenceChecker struct {
	db *gorm.DB
}

// NewSQLExistenceChecker creates an existence checker over the catalog schema
func NewSQLExistenceChecker(db *gorm.DB) *SQLExistenceChecker {
	return &SQLExistenceChecker{db: db}
}

// Exists reports whether a live product variant still matches the tuple
func (c *SQLExistenceChecker) Exists(ctx context.Context, tuple catalog.SelectorTuple) (bool, error) {
	var product struct {
		CurrentEventID uuid.UUID
	}
	result := c.db.WithContext(ctx).
		Raw("SELECT current_event_id FROM products WHERE id = ? AND active", tuple.ProductID).
		Scan(&product)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check product existence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if tuple.OfferConst == nil {
		return true, nil
	}

	var offer struct {
		ID uuid.UUID
	}
	result = c.db.WithContext(ctx).
		Raw("SELECT id FROM product_offers WHERE event_id = ? AND const = ?",
			product.CurrentEventID, *tuple.OfferConst).
		Scan(&offer)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check offer existence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if tuple.VariationConst == nil {
		return true, nil
	}

	var variation struct {
		ID uuid.UUID
	}
	result = c.db.WithContext(ctx).
		Raw("SELECT id FROM product_variations WHERE offer_id = ? AND const = ?",
			offer.ID, *tuple.VariationConst).
		Scan(&variation)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check variation existence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if tuple.ModificationConst == nil {
		return true, nil
	}

	var count int64
	result = c.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM product_modifications WHERE variation_id = ? AND const = ?",
			variation.ID, *tuple.ModificationConst).
		Scan(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check modification existence: %w", result.Error)
	}
	return count > 0, nil
}

// Ensure SQLExistenceChecker implements catalog.ProductExistenceChecker
var _ catalog.ProductExistenceChecker = (*SQLExistenceChecker)(nil)
