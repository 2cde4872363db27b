package profile

import (
	"context"

	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MerchantProfile is a seller account with Drom marketplace credentials.
// The packet id and auth key pair authenticates pricelist uploads; a profile
// participates in synchronization only while active and its token is valid.
type MerchantProfile struct {
	shared.BaseEntity
	Name        string     `gorm:"type:varchar(100);not null"`
	PriceListID string     `gorm:"type:varchar(64)"`
	AuthKey     string     `gorm:"type:varchar(128)"`
	Active      bool       `gorm:"not null;default:true"`
	TokenValid  bool       `gorm:"not null;default:false"`
	CompanyID   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (MerchantProfile) TableName() string {
	return "drom_profiles"
}

// HasCredentials reports whether both upload credentials are present
func (p *MerchantProfile) HasCredentials() bool {
	return p.PriceListID != "" && p.AuthKey != ""
}

// Eligible reports whether the profile can take part in a sync fan-out
func (p *MerchantProfile) Eligible() bool {
	return p.Active && p.TokenValid && p.HasCredentials()
}

// Repository provides access to merchant profiles
type Repository interface {
	// FindByID finds a profile by id
	FindByID(ctx context.Context, id uuid.UUID) (*MerchantProfile, error)

	// FindActiveWithToken finds all profiles eligible for sync fan-out.
	// Returns shared.ErrNoActiveProfiles when none qualify.
	FindActiveWithToken(ctx context.Context) ([]MerchantProfile, error)

	// Save persists the profile
	Save(ctx context.Context, p *MerchantProfile) error
}
