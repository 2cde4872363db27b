package persistence

import (
	"context"
	"fmt"

	appsync "github.com/dromsync/backend/internal/application/sync"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// feedQuery maps every listing of a profile to its marketplace category,
// current price, stock and root image. Only products whose category carries
// a board mapping enter the feed. Price cascades to the deepest nonzero
// variant level; quantity is taken at the listing's level, net of reserve
// and clamped at zero. Variant joins are anchored to the product's current
// event so superseded rows never leak into the feed.
const feedQuery = `
SELECT
    p.article AS article,
    p.name AS name,
    bm.value AS category,
    COALESCE(NULLIF(m.price, 0), NULLIF(v.price, 0), NULLIF(o.price, 0), p.base_price) AS price,
    GREATEST(
        COALESCE(m.quantity - m.reserve, v.quantity - v.reserve, o.quantity - o.reserve, p.quantity - p.reserve),
        0
    ) AS quantity,
    dl.id AS listing_id,
    img.name AS image_name,
    img.ext AS image_ext
FROM drom_listings dl
JOIN products p ON p.id = dl.product_id
JOIN drom_board_mapper bm ON bm.category_id = p.category_id
LEFT JOIN product_offers o
    ON dl.offer_const IS NOT NULL
    AND o.const = dl.offer_const
    AND o.event_id = p.current_event_id
LEFT JOIN product_variations v
    ON dl.variation_const IS NOT NULL
    AND v.const = dl.variation_const
    AND v.offer_id = o.id
LEFT JOIN product_modifications m
    ON dl.modification_const IS NOT NULL
    AND m.const = dl.modification_const
    AND m.variation_id = v.id
LEFT JOIN drom_listing_images img
    ON img.listing_id = dl.id
    AND img.root
WHERE dl.profile_id = ? AND p.active
`

const feedQueryOrder = ` ORDER BY p.article`

// SQLFeedSource loads renderable price-list rows for a profile
type SQLFeedSource struct {
	db *gorm.DB
}

// NewSQLFeedSource creates a feed source over the catalog and listing schema
func NewSQLFeedSource(db *gorm.DB) *SQLFeedSource {
	return &SQLFeedSource{db: db}
}

type feedRowRecord struct {
	Article   string
	Name      string
	Category  string
	Price     decimal.Decimal
	Quantity  int
	ListingID uuid.UUID
	ImageName *string
	ImageExt  *string
}

// RowsForProfile returns the mapped price-list rows of a profile, narrowed
// by the filter's product selector when one is set
func (s *SQLFeedSource) RowsForProfile(ctx context.Context, profileID uuid.UUID, filter appsync.FeedFilter) ([]appsync.FeedRow, error) {
	query := feedQuery
	args := []any{profileID}

	if filter.ProductID != uuid.Nil {
		query += ` AND dl.product_id = ?`
		args = append(args, filter.ProductID)
	}
	if filter.OfferConst != nil {
		query += ` AND dl.offer_const = ?`
		args = append(args, *filter.OfferConst)
	}
	if filter.VariationConst != nil {
		query += ` AND dl.variation_const = ?`
		args = append(args, *filter.VariationConst)
	}
	if filter.ModificationConst != nil {
		query += ` AND dl.modification_const = ?`
		args = append(args, *filter.ModificationConst)
	}
	query += feedQueryOrder

	var records []feedRowRecord
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load feed rows: %w", err)
	}

	rows := make([]appsync.FeedRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, appsync.FeedRow{
			Article:  rec.Article,
			Name:     rec.Name,
			Category: rec.Category,
			Price:    rec.Price,
			Currency: "RUB",
			Quantity: rec.Quantity,
			ImageURL: imageURL(rec),
		})
	}
	return rows, nil
}

// imageURL builds the public path of the listing's root image, mirroring
// the local store layout under the upload root
func imageURL(rec feedRowRecord) string {
	if rec.ImageName == nil || *rec.ImageName == "" {
		return ""
	}
	url := fmt.Sprintf("/upload/listings/%s/%s", rec.ListingID, *rec.ImageName)
	if rec.ImageExt != nil && *rec.ImageExt != "" {
		url += "." + *rec.ImageExt
	}
	return url
}

// Ensure SQLFeedSource implements the feed source port
var _ appsync.FeedSource = (*SQLFeedSource)(nil)
