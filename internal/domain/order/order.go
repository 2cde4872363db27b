package order

import (
	"context"

	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Order status values that participate in marketplace synchronization. A
// status change reserves or releases stock, so any transition triggers a
// price and availability refresh on Drom.
const (
	StatusNew       = "new"
	StatusPackage   = "package"
	StatusExtradite = "extradite"
	StatusDelivery  = "delivery"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// Order is a purchase whose line items pin event-level product identifiers.
// Stock math happens in the catalog; the sync pipeline only needs the item
// identifiers to resolve const-level selectors.
type Order struct {
	shared.BaseAggregateRoot
	Number    string      `gorm:"type:varchar(36);not null;uniqueIndex"`
	Status    string      `gorm:"type:varchar(20);not null;index"`
	ProfileID *uuid.UUID  `gorm:"type:uuid"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item referencing a product through its event-level
// identifiers, exactly as captured at order time
type OrderItem struct {
	shared.BaseEntity
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductEventID uuid.UUID  `gorm:"type:uuid;not null"`
	OfferID        *uuid.UUID `gorm:"type:uuid"`
	VariationID    *uuid.UUID `gorm:"type:uuid"`
	ModificationID *uuid.UUID `gorm:"type:uuid"`
	Quantity       int        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// CurrentOrderItems loads the line items of an order's current state
type CurrentOrderItems interface {
	// FindByOrderID returns the items of the order, or shared.ErrNotFound
	// when the order does not exist
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)
}
