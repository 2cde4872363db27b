package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/dromsync/backend/internal/domain/order"
	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	syncdomain "github.com/dromsync/backend/internal/domain/sync"
	"go.uber.org/zap"
)

// OrderStatusHandler reacts to order status transitions. Every transition
// moves stock reserves, so the handler schedules a price-list refresh for
// each product in the order on every eligible profile.
type OrderStatusHandler struct {
	logger     *zap.Logger
	items      order.CurrentOrderItems
	resolver   catalog.ProductIdentifierResolver
	profiles   profile.Repository
	dispatcher syncdomain.CommandDispatcher
	delay      time.Duration
}

// NewOrderStatusHandler creates a handler for order status events
func NewOrderStatusHandler(
	logger *zap.Logger,
	items order.CurrentOrderItems,
	resolver catalog.ProductIdentifierResolver,
	profiles profile.Repository,
	dispatcher syncdomain.CommandDispatcher,
	delay time.Duration,
) *OrderStatusHandler {
	return &OrderStatusHandler{
		logger:     logger,
		items:      items,
		resolver:   resolver,
		profiles:   profiles,
		dispatcher: dispatcher,
		delay:      delay,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderStatusHandler) EventTypes() []string {
	return []string{order.EventTypeOrderStatusChanged}
}

// Handle processes an OrderStatusChangedEvent
func (h *OrderStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*order.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderStatusChanged, event.EventType())
	}

	items, err := h.items.FindByOrderID(ctx, statusEvent.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("order not found, skipping marketplace sync",
				zap.String("order_id", statusEvent.OrderID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load order items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	profiles, err := h.profiles.FindActiveWithToken(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNoActiveProfiles) {
			h.logger.Warn("no profiles eligible for sync, aborting fan-out",
				zap.String("order_id", statusEvent.OrderID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	dispatched := 0
	for _, item := range items {
		identifier, err := h.resolver.ResolveByEvent(ctx,
			item.ProductEventID, item.OfferID, item.VariationID, item.ModificationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// The product changed since the order was placed; the line
				// item references rows that no longer resolve
				h.logger.Warn("order item no longer resolves to a product, skipping",
					zap.String("order_id", statusEvent.OrderID.String()),
					zap.String("product_event_id", item.ProductEventID.String()),
				)
				continue
			}
			return fmt.Errorf("failed to resolve order item: %w", err)
		}

		for _, p := range profiles {
			cmd := syncdomain.NewCommand(p.ID, identifier.ProductID,
				identifier.OfferConst, identifier.VariationConst, identifier.ModificationConst)
			if err := h.dispatcher.Dispatch(ctx, cmd, h.delay); err != nil {
				return fmt.Errorf("failed to dispatch sync command: %w", err)
			}
			dispatched++
		}
	}

	h.logger.Info("order status sync fan-out dispatched",
		zap.String("order_id", statusEvent.OrderID.String()),
		zap.String("status", statusEvent.Status),
		zap.Int("commands", dispatched),
	)
	return nil
}

// Ensure OrderStatusHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderStatusHandler)(nil)
