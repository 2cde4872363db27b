package listing

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Image is a listing-owned picture. The physical file materializes in local
// storage first; a background task pushes it to the CDN and sets the flag.
type Image struct {
	shared.BaseEntity
	ListingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Ext       string    `gorm:"type:varchar(16);not null"`
	Root      bool      `gorm:"not null;default:false"`
	CDN       bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Image) TableName() string {
	return "drom_listing_images"
}

// NewImage creates an image record for a stored file
func NewImage(name, ext string, root bool) Image {
	return Image{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Ext:        ext,
		Root:       root,
	}
}

// FileName returns the stored file name including extension
func (i *Image) FileName() string {
	return i.Name + "." + i.Ext
}

// MarkUploaded flags the image as pushed to the CDN
func (i *Image) MarkUploaded() {
	i.CDN = true
}
