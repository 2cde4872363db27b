package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeedRow is one renderable price-list line. Price already carries the
// deepest nonzero level of the product's price cascade, Quantity is the
// available amount net of reserves, never negative, and Category is the
// marketplace category the product's own category is mapped to.
type FeedRow struct {
	Article  string
	Name     string
	Category string
	Price    decimal.Decimal
	Currency string
	Quantity int
	ImageURL string
}

// FeedFilter narrows a profile's feed to the rows touched by one command.
// A zero ProductID selects the profile's whole mapped catalog; a nil
// selector const leaves that level unconstrained.
type FeedFilter struct {
	ProductID         uuid.UUID
	OfferConst        *uuid.UUID
	VariationConst    *uuid.UUID
	ModificationConst *uuid.UUID
}

// FeedSource loads mapped price-list rows for a profile
type FeedSource interface {
	RowsForProfile(ctx context.Context, profileID uuid.UUID, filter FeedFilter) ([]FeedRow, error)
}

// FeedRenderer renders the rows into the marketplace price-list document.
// A missing template for the profile is reported as shared.ErrNotFound and
// treated as a normal outcome, not a failure.
type FeedRenderer interface {
	Render(profileID uuid.UUID, rows []FeedRow) ([]byte, error)
}

// DromClient uploads a rendered price list to the Drom packet API.
// A transport failure returns an error so the caller can retry; a rejected
// upload (non-2xx) returns (false, nil) and is only logged.
type DromClient interface {
	Post(ctx context.Context, priceListID, authKey string, payload []byte) (bool, error)
}

// ListingRemover deletes a listing through its full lifecycle: cascading
// children, stored files, cache invalidation and the deleted event.
type ListingRemover interface {
	Delete(ctx context.Context, id uuid.UUID) error
}
