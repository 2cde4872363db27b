package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestSQLExistenceChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("missing product answers false", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		checker := NewSQLExistenceChecker(db)

		productID := uuid.New()
		mock.ExpectQuery(`SELECT current_event_id FROM products WHERE id = \$1 AND active`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"current_event_id"}))

		exists, err := checker.Exists(ctx, catalog.SelectorTuple{ProductID: productID})
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product without deeper selectors answers true", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		checker := NewSQLExistenceChecker(db)

		productID := uuid.New()
		eventID := uuid.New()
		mock.ExpectQuery(`SELECT current_event_id FROM products WHERE id = \$1 AND active`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"current_event_id"}).AddRow(eventID))

		exists, err := checker.Exists(ctx, catalog.SelectorTuple{ProductID: productID})
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("offer dropped from current event answers false", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		checker := NewSQLExistenceChecker(db)

		productID := uuid.New()
		eventID := uuid.New()
		offerConst := uuid.New()

		mock.ExpectQuery(`SELECT current_event_id FROM products WHERE id = \$1 AND active`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"current_event_id"}).AddRow(eventID))
		mock.ExpectQuery(`SELECT id FROM product_offers WHERE event_id = \$1 AND const = \$2`).
			WithArgs(eventID, offerConst).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		exists, err := checker.Exists(ctx, catalog.SelectorTuple{
			ProductID:  productID,
			OfferConst: &offerConst,
		})
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("offer present without variation selector answers true", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		checker := NewSQLExistenceChecker(db)

		productID := uuid.New()
		eventID := uuid.New()
		offerConst := uuid.New()
		offerID := uuid.New()

		mock.ExpectQuery(`SELECT current_event_id FROM products WHERE id = \$1 AND active`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"current_event_id"}).AddRow(eventID))
		mock.ExpectQuery(`SELECT id FROM product_offers WHERE event_id = \$1 AND const = \$2`).
			WithArgs(eventID, offerConst).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(offerID))

		exists, err := checker.Exists(ctx, catalog.SelectorTuple{
			ProductID:  productID,
			OfferConst: &offerConst,
		})
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full chain present answers true", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		checker := NewSQLExistenceChecker(db)

		productID := uuid.New()
		eventID := uuid.New()
		offerConst := uuid.New()
		offerID := uuid.New()
		variationConst := uuid.New()
		variationID := uuid.New()
		modificationConst := uuid.New()

		mock.ExpectQuery(`SELECT current_event_id FROM products WHERE id = \$1 AND active`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"current_event_id"}).AddRow(eventID))
		mock.ExpectQuery(`SELECT id FROM product_offers WHERE event_id = \$1 AND const = \$2`).
			WithArgs(eventID, offerConst).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(offerID))
		mock.ExpectQuery(`SELECT id FROM product_variations WHERE offer_id = \$1 AND const = \$2`).
			WithArgs(offerID, variationConst).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(variationID))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM product_modifications WHERE variation_id = \$1 AND const = \$2`).
			WithArgs(variationID, modificationConst).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := checker.Exists(ctx, catalog.SelectorTuple{
			ProductID:         productID,
			OfferConst:        &offerConst,
			VariationConst:    &variationConst,
			ModificationConst: &modificationConst,
		})
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLIdentifierResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves product-level reference", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		resolver := NewSQLIdentifierResolver(db)

		eventID := uuid.New()
		productID := uuid.New()
		mock.ExpectQuery(`SELECT id FROM products WHERE current_event_id = \$1`).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(productID))

		identifier, err := resolver.ResolveByEvent(ctx, eventID, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, productID, identifier.ProductID)
		assert.Nil(t, identifier.OfferConst)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("resolves offer const from row id", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		resolver := NewSQLIdentifierResolver(db)

		eventID := uuid.New()
		productID := uuid.New()
		offerID := uuid.New()
		offerConst := uuid.New()

		mock.ExpectQuery(`SELECT id FROM products WHERE current_event_id = \$1`).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(productID))
		mock.ExpectQuery(`SELECT const FROM product_offers WHERE id = \$1`).
			WithArgs(offerID).
			WillReturnRows(sqlmock.NewRows([]string{"const"}).AddRow(offerConst))

		identifier, err := resolver.ResolveByEvent(ctx, eventID, &offerID, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, identifier.OfferConst)
		assert.Equal(t, offerConst, *identifier.OfferConst)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale event reference is not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		resolver := NewSQLIdentifierResolver(db)

		eventID := uuid.New()
		mock.ExpectQuery(`SELECT id FROM products WHERE current_event_id = \$1`).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := resolver.ResolveByEvent(ctx, eventID, nil, nil, nil)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
