package storage

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DisabledCDN stands in for the uploader when no CDN bucket is configured.
// Images stay in local storage and keep their pending flag.
type DisabledCDN struct {
	logger *zap.Logger
}

// NewDisabledCDN creates the stand-in uploader
func NewDisabledCDN(logger *zap.Logger) *DisabledCDN {
	return &DisabledCDN{logger: logger}
}

// Upload acknowledges the task without pushing anything
func (d *DisabledCDN) Upload(_ context.Context, listingID, imageID uuid.UUID) error {
	d.logger.Warn("cdn disabled, image stays local",
		zap.String("listing_id", listingID.String()),
		zap.String("image_id", imageID.String()))
	return nil
}
