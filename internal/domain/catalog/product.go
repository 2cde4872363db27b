package catalog

import (
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog aggregate root. Every edit produces a new product
// event; offers, variations and modifications hang off the current event, so
// rows from superseded events are dead weight the reconciler treats as gone.
type Product struct {
	shared.BaseAggregateRoot
	Article        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	CurrentEventID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BasePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity       int             `gorm:"not null;default:0"`
	Reserve        int             `gorm:"not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with a fresh current event
func NewProduct(article, name string) (*Product, error) {
	if article == "" {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Product article cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Article:           article,
		Name:              name,
		CurrentEventID:    uuid.New(),
		BasePrice:         decimal.Zero,
	}, nil
}

// AvailableQuantity returns quantity net of reserve, clamped at zero
func (p *Product) AvailableQuantity() int {
	if available := p.Quantity - p.Reserve; available > 0 {
		return available
	}
	return 0
}

// BoardMapping binds a catalog category to its marketplace board category.
// Only products whose category carries a mapping enter the price-list feed.
type BoardMapping struct {
	shared.BaseEntity
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Value      string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (BoardMapping) TableName() string {
	return "drom_board_mapper"
}

// ProductOffer is a trade offer under a product event. Const survives event
// revisions and is the identifier marketplace listings pin themselves to.
type ProductOffer struct {
	shared.BaseEntity
	EventID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Const    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Value    string          `gorm:"type:varchar(100)"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity int             `gorm:"not null;default:0"`
	Reserve  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductOffer) TableName() string {
	return "product_offers"
}

// ProductVariation is a variant under an offer
type ProductVariation struct {
	shared.BaseEntity
	OfferID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Const    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Value    string          `gorm:"type:varchar(100)"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity int             `gorm:"not null;default:0"`
	Reserve  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariation) TableName() string {
	return "product_variations"
}

// ProductModification is the deepest variant level, under a variation
type ProductModification struct {
	shared.BaseEntity
	VariationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Const       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Value       string          `gorm:"type:varchar(100)"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity    int             `gorm:"not null;default:0"`
	Reserve     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModification) TableName() string {
	return "product_modifications"
}
