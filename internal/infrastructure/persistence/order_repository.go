package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dromsync/backend/internal/domain/order"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderItemsRepository implements order.CurrentOrderItems using GORM
type GormOrderItemsRepository struct {
	db *gorm.DB
}

// NewGormOrderItemsRepository creates a new GORM-based order items repository
func NewGormOrderItemsRepository(db *gorm.DB) *GormOrderItemsRepository {
	return &GormOrderItemsRepository{db: db}
}

// FindByOrderID returns the items of the order, or shared.ErrNotFound when
// the order does not exist
func (r *GormOrderItemsRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]order.OrderItem, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Select("id").First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	var items []order.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	return items, nil
}

// Ensure GormOrderItemsRepository implements order.CurrentOrderItems
var _ order.CurrentOrderItems = (*GormOrderItemsRepository)(nil)
