package persistence

import (
	"context"
	"testing"

	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProfileTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&profile.MerchantProfile{}))
	return db
}

func storedProfile(t *testing.T, db *gorm.DB, mutate func(*profile.MerchantProfile)) *profile.MerchantProfile {
	t.Helper()
	p := &profile.MerchantProfile{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        "store",
		PriceListID: "55359",
		AuthKey:     "secret",
		Active:      true,
		TokenValid:  true,
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGormProfileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("finds profile by id", func(t *testing.T) {
		db := setupProfileTestDB(t)
		repo := NewGormProfileRepository(db)
		p := storedProfile(t, db, nil)

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, found.Name)
		assert.True(t, found.Eligible())
	})

	t.Run("missing profile maps to not found", func(t *testing.T) {
		repo := NewGormProfileRepository(setupProfileTestDB(t))
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("only eligible profiles take part in fan-out", func(t *testing.T) {
		db := setupProfileTestDB(t)
		repo := NewGormProfileRepository(db)

		eligible := storedProfile(t, db, nil)
		storedProfile(t, db, func(p *profile.MerchantProfile) { p.Active = false })
		storedProfile(t, db, func(p *profile.MerchantProfile) { p.TokenValid = false })
		storedProfile(t, db, func(p *profile.MerchantProfile) { p.PriceListID = "" })
		storedProfile(t, db, func(p *profile.MerchantProfile) { p.AuthKey = "" })

		found, err := repo.FindActiveWithToken(ctx)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, eligible.ID, found[0].ID)
	})

	t.Run("no eligible profiles is a dedicated error", func(t *testing.T) {
		db := setupProfileTestDB(t)
		repo := NewGormProfileRepository(db)
		storedProfile(t, db, func(p *profile.MerchantProfile) { p.TokenValid = false })

		_, err := repo.FindActiveWithToken(ctx)
		assert.ErrorIs(t, err, shared.ErrNoActiveProfiles)
	})

	t.Run("save updates an existing profile", func(t *testing.T) {
		db := setupProfileTestDB(t)
		repo := NewGormProfileRepository(db)
		p := storedProfile(t, db, nil)

		p.TokenValid = false
		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, found.TokenValid)
	})
}
