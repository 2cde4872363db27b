package order

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventTypeOrderStatusChanged is published on every order status transition
const EventTypeOrderStatusChanged = "order.status.changed"

// OrderStatusChangedEvent carries the order id and the new status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

// NewOrderStatusChangedEvent creates an event for an order status transition
func NewOrderStatusChangedEvent(orderID uuid.UUID, status string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "Order", orderID),
		OrderID:         orderID,
		Status:          status,
	}
}
