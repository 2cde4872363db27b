package persistence

import (
	"context"
	"testing"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/dromsync/backend/internal/domain/listing"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupListingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Product{}, &listing.Listing{}, &listing.Image{})
	require.NoError(t, err)

	return db
}

func TestGormListingRepository_FindByKey(t *testing.T) {
	ctx := context.Background()
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	productID := uuid.New()
	profileID := uuid.New()
	offerConst := uuid.New()

	plain := listing.NewListing(listing.Key{ProductID: productID, ProfileID: profileID, Kit: 1})
	withOffer := listing.NewListing(listing.Key{ProductID: productID, OfferConst: &offerConst, ProfileID: profileID, Kit: 1})
	require.NoError(t, repo.Save(ctx, plain))
	require.NoError(t, repo.Save(ctx, withOffer))

	t.Run("null selector matches only the null record", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, listing.Key{ProductID: productID, ProfileID: profileID, Kit: 1})
		require.NoError(t, err)
		assert.Equal(t, plain.ID, found.ID)
		assert.Nil(t, found.OfferConst)
	})

	t.Run("valued selector matches only the valued record", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, listing.Key{ProductID: productID, OfferConst: &offerConst, ProfileID: profileID, Kit: 1})
		require.NoError(t, err)
		assert.Equal(t, withOffer.ID, found.ID)
	})

	t.Run("different const value does not match", func(t *testing.T) {
		otherConst := uuid.New()
		_, err := repo.FindByKey(ctx, listing.Key{ProductID: productID, OfferConst: &otherConst, ProfileID: profileID, Kit: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("kit is part of the key", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, listing.Key{ProductID: productID, ProfileID: profileID, Kit: 2})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("zero kit defaults to one", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, listing.Key{ProductID: productID, ProfileID: profileID})
		require.NoError(t, err)
		assert.Equal(t, plain.ID, found.ID)
	})
}

func TestGormListingRepository_SaveCascadesImages(t *testing.T) {
	ctx := context.Background()
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	l := listing.NewListing(listing.Key{ProductID: uuid.New(), ProfileID: uuid.New(), Kit: 1})
	l.AddImage(listing.NewImage("front", "webp", true))
	l.AddImage(listing.NewImage("side", "webp", false))
	require.NoError(t, repo.Save(ctx, l))

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, found.Images, 2)
	require.NotNil(t, found.RootImage())
	assert.Equal(t, "front", found.RootImage().Name)
}

func TestGormListingRepository_DeleteRemovesChildren(t *testing.T) {
	ctx := context.Background()
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	l := listing.NewListing(listing.Key{ProductID: uuid.New(), ProfileID: uuid.New(), Kit: 1})
	l.AddImage(listing.NewImage("front", "webp", true))
	require.NoError(t, repo.Save(ctx, l))

	require.NoError(t, repo.Delete(ctx, l.ID))

	_, err := repo.FindByID(ctx, l.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var imageCount int64
	require.NoError(t, db.Model(&listing.Image{}).Where("listing_id = ?", l.ID).Count(&imageCount).Error)
	assert.Zero(t, imageCount)
}

func TestGormListingRepository_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewGormListingRepository(setupListingTestDB(t))

	err := repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormListingRepository_FindAllByProfile(t *testing.T) {
	ctx := context.Background()
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	profileID := uuid.New()
	for i := 0; i < 3; i++ {
		l := listing.NewListing(listing.Key{ProductID: uuid.New(), ProfileID: profileID, Kit: 1})
		require.NoError(t, repo.Save(ctx, l))
	}
	other := listing.NewListing(listing.Key{ProductID: uuid.New(), ProfileID: uuid.New(), Kit: 1})
	require.NoError(t, repo.Save(ctx, other))

	ls, err := repo.FindAllByProfile(ctx, profileID)
	require.NoError(t, err)
	assert.Len(t, ls, 3)
}

func TestGormListingRepository_FindAllByProductEvent(t *testing.T) {
	ctx := context.Background()
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	product, err := catalog.NewProduct("A-100", "Brake pad")
	require.NoError(t, err)
	require.NoError(t, db.Create(product).Error)

	l := listing.NewListing(listing.Key{ProductID: product.ID, ProfileID: uuid.New(), Kit: 1})
	require.NoError(t, repo.Save(ctx, l))

	ls, err := repo.FindAllByProductEvent(ctx, product.CurrentEventID)
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, l.ID, ls[0].ID)

	ls, err = repo.FindAllByProductEvent(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, ls)
}

func TestGormListingRepository_SaveBatch(t *testing.T) {
	ctx := context.Background()
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	profileID := uuid.New()
	batch := make([]*listing.Listing, 0, 5)
	for i := 0; i < 5; i++ {
		batch = append(batch, listing.NewListing(listing.Key{ProductID: uuid.New(), ProfileID: profileID, Kit: 1}))
	}
	require.NoError(t, repo.SaveBatch(ctx, batch))

	ls, err := repo.FindAllByProfile(ctx, profileID)
	require.NoError(t, err)
	assert.Len(t, ls, 5)

	require.NoError(t, repo.SaveBatch(ctx, nil))
}
