package listing

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Listing is a Drom marketplace product entry tracked locally. Many listings
// may reference one catalog product across offer/variation/modification, kit
// and profile combinations; the full tuple is the natural key.
type Listing struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	OfferConst        *uuid.UUID `gorm:"type:uuid"`
	VariationConst    *uuid.UUID `gorm:"type:uuid"`
	ModificationConst *uuid.UUID `gorm:"type:uuid"`
	ProfileID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kit               int        `gorm:"not null;default:1"`
	Description       *string    `gorm:"type:text"`
	Images            []Image    `gorm:"foreignKey:ListingID"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "drom_listings"
}

// NewListing creates a listing for the given natural key
func NewListing(key Key) *Listing {
	key = key.Normalize()
	return &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         key.ProductID,
		OfferConst:        key.OfferConst,
		VariationConst:    key.VariationConst,
		ModificationConst: key.ModificationConst,
		ProfileID:         key.ProfileID,
		Kit:               key.Kit,
	}
}

// Key returns the listing's natural key
func (l *Listing) Key() Key {
	return Key{
		ProductID:         l.ProductID,
		OfferConst:        l.OfferConst,
		VariationConst:    l.VariationConst,
		ModificationConst: l.ModificationConst,
		ProfileID:         l.ProfileID,
		Kit:               l.Kit,
	}
}

// Selectors returns the captured variant selector tuple used by the
// existence reconciler
func (l *Listing) Selectors() (productID uuid.UUID, offer, variation, modification *uuid.UUID) {
	return l.ProductID, l.OfferConst, l.VariationConst, l.ModificationConst
}

// SetDescription replaces the description template
func (l *Listing) SetDescription(description *string) {
	l.Description = description
}

// AddImage appends an image to the collection
func (l *Listing) AddImage(img Image) {
	img.ListingID = l.ID
	l.Images = append(l.Images, img)
}

// NormalizeRootImage enforces the single-root invariant: at most one image
// is root, and when the collection is non-empty exactly one is. If several
// are flagged the first keeps the flag; if none is, the first is promoted.
func (l *Listing) NormalizeRootImage() {
	if len(l.Images) == 0 {
		return
	}

	seen := false
	for i := range l.Images {
		if !l.Images[i].Root {
			continue
		}
		if seen {
			l.Images[i].Root = false
			continue
		}
		seen = true
	}

	if !seen {
		l.Images[0].Root = true
	}
}

// RootImage returns the root image, or nil for an empty collection
func (l *Listing) RootImage() *Image {
	for i := range l.Images {
		if l.Images[i].Root {
			return &l.Images[i]
		}
	}
	return nil
}
