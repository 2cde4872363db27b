package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Command is an immutable instruction to refresh one profile's Drom price
// list for a specific product variant. Nil selectors mean the product level;
// the consumer resolves the concrete feed rows at processing time, so a
// command stays valid even when the product changes between dispatch and
// execution.
type Command struct {
	ProfileID         uuid.UUID  `json:"profile_id"`
	ProductID         uuid.UUID  `json:"product_id"`
	OfferConst        *uuid.UUID `json:"offer_const,omitempty"`
	VariationConst    *uuid.UUID `json:"variation_const,omitempty"`
	ModificationConst *uuid.UUID `json:"modification_const,omitempty"`
}

// NewCommand creates a sync command for a profile and product variant
func NewCommand(profileID, productID uuid.UUID, offer, variation, modification *uuid.UUID) Command {
	return Command{
		ProfileID:         profileID,
		ProductID:         productID,
		OfferConst:        offer,
		VariationConst:    variation,
		ModificationConst: modification,
	}
}

// CommandDispatcher hands commands to the drom-products transport. Delivery
// is at-least-once; the delay gives bursty upstream events time to settle
// before the marketplace round trip.
type CommandDispatcher interface {
	// Dispatch enqueues the command for processing after the given delay
	Dispatch(ctx context.Context, cmd Command, delay time.Duration) error
}
