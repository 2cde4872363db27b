package persistence

import (
	"context"
	"fmt"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLIdentifierResolver implements catalog.ProductIdentifierResolver.
// Order line items pin event-level row ids; listings are keyed by the stable
// consts, so every sync triggered by an order goes through this translation.
type SQLIdentifierResolver struct {
	db *gorm.DB
}

// NewSQLIdentifierResolver creates a resolver over the catalog schema
func NewSQLIdentifierResolver(db *gorm.DB) *SQLIdentifierResolver {
	return &SQLIdentifierResolver{db: db}
}

// ResolveByEvent resolves event-level references to the const-level tuple.
// Returns shared.ErrNotFound when the product or any referenced variant row
// no longer exists.
func (r *SQLIdentifierResolver) ResolveByEvent(ctx context.Context, eventID uuid.UUID, offerID, variationID, modificationID *uuid.UUID) (*catalog.ProductIdentifier, error) {
	var product struct {
		ID uuid.UUID
	}
	result := r.db.WithContext(ctx).
		Raw("SELECT id FROM products WHERE current_event_id = ?", eventID).
		Scan(&product)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to resolve product by event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}

	identifier := &catalog.ProductIdentifier{ProductID: product.ID}

	if offerID != nil {
		c, err := r.constOf(ctx, "product_offers", *offerID)
		if err != nil {
			return nil, err
		}
		identifier.OfferConst = c
	}
	if variationID != nil {
		c, err := r.constOf(ctx, "product_variations", *variationID)
		if err != nil {
			return nil, err
		}
		identifier.VariationConst = c
	}
	if modificationID != nil {
		c, err := r.constOf(ctx, "product_modifications", *modificationID)
		if err != nil {
			return nil, err
		}
		identifier.ModificationConst = c
	}

	return identifier, nil
}

func (r *SQLIdentifierResolver) constOf(ctx context.Context, table string, rowID uuid.UUID) (*uuid.UUID, error) {
	var row struct {
		Const uuid.UUID
	}
	result := r.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT const FROM %s WHERE id = ?", table), rowID).
		Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to resolve const from %s: %w", table, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return &row.Const, nil
}

// Ensure SQLIdentifierResolver implements catalog.ProductIdentifierResolver
var _ catalog.ProductIdentifierResolver = (*SQLIdentifierResolver)(nil)
