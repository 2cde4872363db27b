package listing

import (
	"github.com/google/uuid"
)

// ImageUpload is a raw picture to attach to a listing. The file lands in
// local storage immediately; the CDN push runs as a background task.
type ImageUpload struct {
	Name      string `validate:"required,max=100"`
	Ext       string `validate:"required,max=16"`
	Data      []byte `validate:"required"`
	Root      bool
	SortOrder int
}

// SaveCommand creates or updates a listing. With ID set the listing is
// looked up directly; otherwise the natural key decides between insert and
// update. The profile is always explicit.
type SaveCommand struct {
	ID                *uuid.UUID
	ProductID         uuid.UUID `validate:"required"`
	OfferConst        *uuid.UUID
	VariationConst    *uuid.UUID
	ModificationConst *uuid.UUID
	ProfileID         uuid.UUID `validate:"required"`
	Kit               int
	Description       *string
	Images            []ImageUpload `validate:"dive"`
}

// UpdateDescriptionCommand rewrites the description of every listing a
// profile owns
type UpdateDescriptionCommand struct {
	ProfileID   uuid.UUID `validate:"required"`
	Description string    `validate:"required"`
}
