package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	syncdomain "github.com/dromsync/backend/internal/domain/sync"
)

// PriceListUpdater consumes sync commands from the queue
type PriceListUpdater interface {
	Update(ctx context.Context, cmd syncdomain.Command) error
}

// ImageUploader pushes a stored listing image to the CDN
type ImageUploader interface {
	Upload(ctx context.Context, listingID, imageID uuid.UUID) error
}

// NewServeMux routes drom-products tasks to their handlers
func NewServeMux(updater PriceListUpdater, uploader ImageUploader, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPriceListUpdate, newPriceListHandler(updater, logger))
	mux.HandleFunc(TaskImageCDNUpload, newImageCDNHandler(uploader, logger))
	return mux
}

func newPriceListHandler(updater PriceListUpdater, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var cmd syncdomain.Command
		if err := json.Unmarshal(task.Payload(), &cmd); err != nil {
			// Malformed payloads never become valid; retrying wastes the queue.
			logger.Error("malformed sync command payload", zap.Error(err))
			return fmt.Errorf("unmarshal sync command: %v: %w", err, asynq.SkipRetry)
		}
		return updater.Update(ctx, cmd)
	}
}

func newImageCDNHandler(uploader ImageUploader, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload ImageCDNPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("malformed cdn payload", zap.Error(err))
			return fmt.Errorf("unmarshal cdn payload: %v: %w", err, asynq.SkipRetry)
		}
		return uploader.Upload(ctx, payload.ListingID, payload.ImageID)
	}
}
