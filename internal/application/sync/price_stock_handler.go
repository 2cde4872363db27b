package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/dromsync/backend/internal/domain/listing"
	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	syncdomain "github.com/dromsync/backend/internal/domain/sync"
	"go.uber.org/zap"
)

// PriceStockHandler reacts to price and stock writes. Warehouse imports fire
// these in storms against the same product event, so the handler is wrapped
// in an idempotent handler at wiring time and only the first event inside
// the deduplication window fans out.
type PriceStockHandler struct {
	logger     *zap.Logger
	listings   listing.Repository
	profiles   profile.Repository
	dispatcher syncdomain.CommandDispatcher
	delay      time.Duration
}

// NewPriceStockHandler creates a handler for price/stock change events
func NewPriceStockHandler(
	logger *zap.Logger,
	listings listing.Repository,
	profiles profile.Repository,
	dispatcher syncdomain.CommandDispatcher,
	delay time.Duration,
) *PriceStockHandler {
	return &PriceStockHandler{
		logger:     logger,
		listings:   listings,
		profiles:   profiles,
		dispatcher: dispatcher,
		delay:      delay,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PriceStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductPriceChanged}
}

// Handle processes a ProductPriceChangedEvent
func (h *PriceStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	priceEvent, ok := event.(*catalog.ProductPriceChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductPriceChanged, event.EventType())
	}

	listings, err := h.listings.FindAllByProductEvent(ctx, priceEvent.ProductEventID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("product event not mapped to any listing, skipping",
				zap.String("product_event_id", priceEvent.ProductEventID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load listings for product event: %w", err)
	}
	if len(listings) == 0 {
		return nil
	}

	profiles, err := h.profiles.FindActiveWithToken(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNoActiveProfiles) {
			h.logger.Warn("no profiles eligible for sync, aborting fan-out",
				zap.String("product_event_id", priceEvent.ProductEventID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	dispatched := 0
	for i := range listings {
		productID, offer, variation, modification := listings[i].Selectors()
		for _, p := range profiles {
			cmd := syncdomain.NewCommand(p.ID, productID, offer, variation, modification)
			if err := h.dispatcher.Dispatch(ctx, cmd, h.delay); err != nil {
				return fmt.Errorf("failed to dispatch sync command: %w", err)
			}
			dispatched++
		}
	}

	h.logger.Info("price/stock sync fan-out dispatched",
		zap.String("product_event_id", priceEvent.ProductEventID.String()),
		zap.Int("commands", dispatched),
	)
	return nil
}

// Ensure PriceStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*PriceStockHandler)(nil)
