package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appsync "github.com/dromsync/backend/internal/application/sync"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLFeedSource_RowsForProfile(t *testing.T) {
	ctx := context.Background()
	feedColumns := []string{"article", "name", "category", "price", "quantity", "listing_id", "image_name", "image_ext"}

	t.Run("maps rows with category, cascaded price and root image", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		source := NewSQLFeedSource(db)

		profileID := uuid.New()
		listingID := uuid.New()
		rows := sqlmock.NewRows(feedColumns).
			AddRow("A-100", "Brake pad", "Запчасти", decimal.NewFromInt(1500), 4, listingID, "front", "jpg").
			AddRow("B-200", "Oil filter", "Запчасти", decimal.NewFromInt(320), 0, uuid.New(), nil, nil)

		mock.ExpectQuery(`SELECT(?s).*JOIN drom_board_mapper bm ON bm\.category_id = p\.category_id(?s).*LEFT JOIN drom_listing_images img(?s).*WHERE dl\.profile_id = \$1 AND p\.active`).
			WithArgs(profileID).
			WillReturnRows(rows)

		feed, err := source.RowsForProfile(ctx, profileID, appsync.FeedFilter{})
		require.NoError(t, err)
		require.Len(t, feed, 2)

		assert.Equal(t, "A-100", feed[0].Article)
		assert.Equal(t, "Brake pad", feed[0].Name)
		assert.Equal(t, "Запчасти", feed[0].Category)
		assert.True(t, feed[0].Price.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, "RUB", feed[0].Currency)
		assert.Equal(t, 4, feed[0].Quantity)
		assert.Equal(t, "/upload/listings/"+listingID.String()+"/front.jpg", feed[0].ImageURL)
		assert.Equal(t, 0, feed[1].Quantity)
		assert.Empty(t, feed[1].ImageURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filter narrows to the selected product variant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		source := NewSQLFeedSource(db)

		profileID := uuid.New()
		productID := uuid.New()
		offer := uuid.New()
		rows := sqlmock.NewRows(feedColumns).
			AddRow("A-100", "Brake pad", "Запчасти", decimal.NewFromInt(1500), 4, uuid.New(), nil, nil)

		mock.ExpectQuery(`SELECT(?s).*WHERE dl\.profile_id = \$1 AND p\.active\s+AND dl\.product_id = \$2 AND dl\.offer_const = \$3 ORDER BY p\.article`).
			WithArgs(profileID, productID, offer).
			WillReturnRows(rows)

		feed, err := source.RowsForProfile(ctx, profileID, appsync.FeedFilter{
			ProductID:  productID,
			OfferConst: &offer,
		})
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty profile yields empty feed", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		source := NewSQLFeedSource(db)

		profileID := uuid.New()
		mock.ExpectQuery(`SELECT(?s).*FROM drom_listings dl(?s).*`).
			WithArgs(profileID).
			WillReturnRows(sqlmock.NewRows(feedColumns))

		feed, err := source.RowsForProfile(ctx, profileID, appsync.FeedFilter{})
		require.NoError(t, err)
		assert.Empty(t, feed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
