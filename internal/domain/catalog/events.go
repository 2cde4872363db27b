package catalog

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for the catalog context
const (
	EventTypeProductChanged      = "catalog.product.changed"
	EventTypeProductPriceChanged = "catalog.product.price_changed"
)

// ProductChangedEvent signals that a product card was edited (a new product
// event became current). Consumed by the marketplace sync pipeline.
type ProductChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewProductChangedEvent creates an event for a changed product
func NewProductChangedEvent(productID uuid.UUID) *ProductChangedEvent {
	return &ProductChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductChanged, "Product", productID),
		ProductID:       productID,
	}
}

// ProductPriceChangedEvent signals a price or stock write against a product
// event. The product-event id is the deduplication key upstream storms share.
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductEventID uuid.UUID `json:"product_event_id"`
}

// NewProductPriceChangedEvent creates an event for a price/stock change
func NewProductPriceChangedEvent(productEventID uuid.UUID) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, "ProductEvent", productEventID),
		ProductEventID:  productEventID,
	}
}
