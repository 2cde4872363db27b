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

// ProductChangeHandler reacts to product card edits. A new current event may
// drop offers, variations or modifications that existing listings still
// point at, so the handler reconciles each listing against the live catalog,
// removes the stale ones through the listing lifecycle, then schedules a
// price-list refresh for every eligible profile. Removed listings still fan
// out so the marketplace drops the rows too.
type ProductChangeHandler struct {
	logger     *zap.Logger
	listings   listing.Repository
	existence  catalog.ProductExistenceChecker
	remover    ListingRemover
	profiles   profile.Repository
	dispatcher syncdomain.CommandDispatcher
	delay      time.Duration
}

// NewProductChangeHandler creates a handler for product change events
func NewProductChangeHandler(
	logger *zap.Logger,
	listings listing.Repository,
	existence catalog.ProductExistenceChecker,
	remover ListingRemover,
	profiles profile.Repository,
	dispatcher syncdomain.CommandDispatcher,
	delay time.Duration,
) *ProductChangeHandler {
	return &ProductChangeHandler{
		logger:     logger,
		listings:   listings,
		existence:  existence,
		remover:    remover,
		profiles:   profiles,
		dispatcher: dispatcher,
		delay:      delay,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductChangeHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductChanged}
}

// Handle processes a ProductChangedEvent
func (h *ProductChangeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changedEvent, ok := event.(*catalog.ProductChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductChanged, event.EventType())
	}

	listings, err := h.listings.FindAllByProduct(ctx, changedEvent.ProductID)
	if err != nil {
		return fmt.Errorf("failed to load listings for product: %w", err)
	}
	if len(listings) == 0 {
		return nil
	}

	removed := 0
	for i := range listings {
		l := &listings[i]
		productID, offer, variation, modification := l.Selectors()
		exists, err := h.existence.Exists(ctx, catalog.SelectorTuple{
			ProductID:         productID,
			OfferConst:        offer,
			VariationConst:    variation,
			ModificationConst: modification,
		})
		if err != nil {
			return fmt.Errorf("failed to check product existence: %w", err)
		}

		if !exists {
			if err := h.remover.Delete(ctx, l.ID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return fmt.Errorf("failed to delete stale listing: %w", err)
			}
			removed++
			h.logger.Info("stale listing removed",
				zap.String("listing_id", l.ID.String()),
				zap.String("product_id", productID.String()),
			)
		}
	}

	profiles, err := h.profiles.FindActiveWithToken(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNoActiveProfiles) {
			h.logger.Warn("no profiles eligible for sync, aborting fan-out",
				zap.String("product_id", changedEvent.ProductID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	dispatched := 0
	for i := range listings {
		// Stale or not, every eligible profile's feed no longer matches
		// the catalog
		productID, offer, variation, modification := listings[i].Selectors()
		for _, p := range profiles {
			cmd := syncdomain.NewCommand(p.ID, productID, offer, variation, modification)
			if err := h.dispatcher.Dispatch(ctx, cmd, h.delay); err != nil {
				return fmt.Errorf("failed to dispatch sync command: %w", err)
			}
			dispatched++
		}
	}

	h.logger.Info("product change reconciled",
		zap.String("product_id", changedEvent.ProductID.String()),
		zap.Int("listings", len(listings)),
		zap.Int("removed", removed),
		zap.Int("commands", dispatched),
	)
	return nil
}

// Ensure ProductChangeHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductChangeHandler)(nil)
