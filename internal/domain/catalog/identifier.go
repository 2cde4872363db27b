package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductIdentifier is the const-level identity of a product variant.
// Order line items reference event-level rows; this is their translation to
// the stable identifiers marketplace listings are keyed by.
type ProductIdentifier struct {
	ProductID         uuid.UUID
	OfferConst        *uuid.UUID
	VariationConst    *uuid.UUID
	ModificationConst *uuid.UUID
}

// ProductIdentifierResolver resolves event-level line item references to
// const-level product identifiers
type ProductIdentifierResolver interface {
	// ResolveByEvent resolves a (product event, offer, variation, modification)
	// reference to the current const-level identifier tuple.
	// Returns shared.ErrNotFound when the referenced rows no longer exist.
	ResolveByEvent(ctx context.Context, eventID uuid.UUID, offerID, variationID, modificationID *uuid.UUID) (*ProductIdentifier, error)
}

// SelectorTuple captures the variant selectors a marketplace listing was
// created against. Nil selectors mean "not applicable at this level".
type SelectorTuple struct {
	ProductID         uuid.UUID
	OfferConst        *uuid.UUID
	VariationConst    *uuid.UUID
	ModificationConst *uuid.UUID
}

// ProductExistenceChecker reports whether a live product variant still
// matches a selector tuple. The check is a strict containment chain:
// product row exists, then (if an offer const is given) a matching offer
// exists under the product's current event, then (if a variation const is
// given) a matching variation under that offer, then (if a modification
// const is given) a matching modification under that variation. Absence of
// a deeper selector short-circuits to "exists" at the shallower level.
type ProductExistenceChecker interface {
	Exists(ctx context.Context, tuple SelectorTuple) (bool, error)
}

// ProductRepository provides access to catalog products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*Product, error)
	Save(ctx context.Context, product *Product) error
}
