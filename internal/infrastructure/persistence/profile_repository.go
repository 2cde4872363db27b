package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileRepository implements profile.Repository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GORM-based profile repository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by id
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.MerchantProfile, error) {
	var p profile.MerchantProfile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &p, nil
}

// FindActiveWithToken finds all profiles eligible for sync fan-out
func (r *GormProfileRepository) FindActiveWithToken(ctx context.Context) ([]profile.MerchantProfile, error) {
	var profiles []profile.MerchantProfile
	err := r.db.WithContext(ctx).
		Where("active AND token_valid AND price_list_id <> '' AND auth_key <> ''").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, shared.ErrNoActiveProfiles
	}
	return profiles, nil
}

// Save persists the profile
func (r *GormProfileRepository) Save(ctx context.Context, p *profile.MerchantProfile) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Ensure GormProfileRepository implements profile.Repository
var _ profile.Repository = (*GormProfileRepository)(nil)
