package storage

import (
	"context"
	"fmt"
	"mime"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dromsync/backend/internal/domain/listing"
)

// fileLoader reads a locally stored listing image back
type fileLoader interface {
	Load(ctx context.Context, listingID uuid.UUID, fileName string) ([]byte, error)
}

// objectStore is the CDN side of the upload
type objectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// CDNUploader moves a locally stored listing image to the CDN and flags the
// image record once the object is in place. It runs from the queue, so a
// returned error means the task is retried.
type CDNUploader struct {
	listings listing.Repository
	files    fileLoader
	cdn      objectStore
	logger   *zap.Logger
}

// NewCDNUploader creates the background image uploader
func NewCDNUploader(listings listing.Repository, files fileLoader, cdn objectStore, logger *zap.Logger) *CDNUploader {
	return &CDNUploader{listings: listings, files: files, cdn: cdn, logger: logger}
}

// Upload pushes one image of a listing to the CDN
func (u *CDNUploader) Upload(ctx context.Context, listingID, imageID uuid.UUID) error {
	l, err := u.listings.FindByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("load listing %s: %w", listingID, err)
	}

	var img *listing.Image
	for i := range l.Images {
		if l.Images[i].ID == imageID {
			img = &l.Images[i]
			break
		}
	}
	if img == nil {
		// The image was removed after the task was enqueued.
		u.logger.Warn("cdn upload skipped, image no longer on listing",
			zap.String("listing_id", listingID.String()),
			zap.String("image_id", imageID.String()))
		return nil
	}
	if img.CDN {
		return nil
	}

	data, err := u.files.Load(ctx, listingID, img.FileName())
	if err != nil {
		return fmt.Errorf("load image file: %w", err)
	}

	key := path.Join("listings", listingID.String(), img.FileName())
	contentType := mime.TypeByExtension("." + img.Ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := u.cdn.Put(ctx, key, contentType, data); err != nil {
		return err
	}

	img.MarkUploaded()
	if err := u.listings.Save(ctx, l); err != nil {
		return fmt.Errorf("flag image as uploaded: %w", err)
	}

	u.logger.Info("listing image published to cdn",
		zap.String("listing_id", listingID.String()),
		zap.String("key", key))
	return nil
}
