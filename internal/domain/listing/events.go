package listing

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for the listing context
const (
	EventTypeListingSaved   = "listing.saved"
	EventTypeListingDeleted = "listing.deleted"
)

// ListingSavedEvent is published after a listing create or update. Board and
// category mapping caches key off listings, so consumers invalidate the
// drom-board cache namespace.
type ListingSavedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	ProfileID uuid.UUID `json:"profile_id"`
}

// NewListingSavedEvent creates an event for a saved listing
func NewListingSavedEvent(l *Listing) *ListingSavedEvent {
	return &ListingSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingSaved, "Listing", l.ID),
		ListingID:       l.ID,
		ProfileID:       l.ProfileID,
	}
}

// ListingDeletedEvent is published after a listing and its children were
// removed
type ListingDeletedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	ProfileID uuid.UUID `json:"profile_id"`
}

// NewListingDeletedEvent creates an event for a deleted listing
func NewListingDeletedEvent(l *Listing) *ListingDeletedEvent {
	return &ListingDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingDeleted, "Listing", l.ID),
		ListingID:       l.ID,
		ProfileID:       l.ProfileID,
	}
}
