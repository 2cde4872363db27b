package listing

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to marketplace listings.
//
// The natural-key uniqueness invariant (at most one listing per key) is not
// a database constraint; it is preserved by FindByKey-before-insert, so
// implementations must match nullable selectors exactly (nil matches NULL
// only, a value matches that value only).
type Repository interface {
	// FindByID finds a listing with its images by primary id
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// FindByKey finds the single listing matching the normalized natural key.
	// Returns shared.ErrNotFound when no record matches.
	FindByKey(ctx context.Context, key Key) (*Listing, error)

	// FindAllByProduct finds every listing referencing a catalog product,
	// across all profiles and kits
	FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]Listing, error)

	// FindAllByProductEvent finds every listing whose product currently points
	// at the given product event
	FindAllByProductEvent(ctx context.Context, productEventID uuid.UUID) ([]Listing, error)

	// FindAllByProfile finds all listings of a profile
	FindAllByProfile(ctx context.Context, profileID uuid.UUID) ([]Listing, error)

	// Save persists the listing and its image children
	Save(ctx context.Context, l *Listing) error

	// SaveBatch persists multiple listings in one round trip; bulk rewrites
	// flush through here in bounded batches
	SaveBatch(ctx context.Context, ls []*Listing) error

	// Delete removes the listing and explicitly removes its owned children
	// (images, profile and kit associations) in a single transaction
	Delete(ctx context.Context, id uuid.UUID) error
}
