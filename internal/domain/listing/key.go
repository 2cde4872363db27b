package listing

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultKit is the kit number assumed when a caller leaves it unset
const DefaultKit = 1

// Key is the immutable natural key of a listing: product plus optional
// offer/variation/modification consts plus kit and profile. Nullable
// selectors are significant: a key with a nil offer const only ever matches
// a stored record whose offer const is NULL, never a record with a value.
type Key struct {
	ProductID         uuid.UUID
	OfferConst        *uuid.UUID
	VariationConst    *uuid.UUID
	ModificationConst *uuid.UUID
	ProfileID         uuid.UUID
	Kit               int
}

// Normalize returns a copy with the kit defaulted
func (k Key) Normalize() Key {
	if k.Kit <= 0 {
		k.Kit = DefaultKit
	}
	return k
}

// Validate checks the required parts of the key. Product and profile are
// mandatory; the profile is always an explicit parameter, never an ambient
// session fallback.
func (k Key) Validate() error {
	if k.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_KEY", "Listing key requires a product identifier")
	}
	if k.ProfileID == uuid.Nil {
		return shared.NewDomainError("INVALID_KEY", "Listing key requires a profile identifier")
	}
	return nil
}
