package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	syncdomain "github.com/dromsync/backend/internal/domain/sync"
)

// enqueuer is the slice of asynq.Client the dispatcher needs.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues synchronization work onto the drom-products queue.
// It serves both the sync command fan-out and the deferred CDN image push.
type Dispatcher struct {
	client enqueuer
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher backed by the given asynq client
func NewDispatcher(client *asynq.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

var _ syncdomain.CommandDispatcher = (*Dispatcher)(nil)

// Dispatch enqueues a price list update command, delayed so that bursts of
// upstream changes to the same product collapse into one marketplace call.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd syncdomain.Command, delay time.Duration) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal sync command: %w", err)
	}

	task := asynq.NewTask(TaskPriceListUpdate, payload)
	info, err := d.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueName),
		asynq.ProcessIn(delay),
	)
	if err != nil {
		return fmt.Errorf("enqueue price list update: %w", err)
	}

	d.logger.Debug("sync command enqueued",
		zap.String("task_id", info.ID),
		zap.String("profile_id", cmd.ProfileID.String()),
		zap.String("product_id", cmd.ProductID.String()),
		zap.Duration("delay", delay))
	return nil
}

// DispatchUpload enqueues a CDN push for a stored listing image. Uploads run
// immediately; there is no settling window for binary content.
func (d *Dispatcher) DispatchUpload(ctx context.Context, listingID, imageID uuid.UUID) error {
	payload, err := json.Marshal(ImageCDNPayload{ListingID: listingID, ImageID: imageID})
	if err != nil {
		return fmt.Errorf("marshal cdn payload: %w", err)
	}

	task := asynq.NewTask(TaskImageCDNUpload, payload)
	if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(QueueName)); err != nil {
		return fmt.Errorf("enqueue cdn upload: %w", err)
	}

	d.logger.Debug("cdn upload enqueued",
		zap.String("listing_id", listingID.String()),
		zap.String("image_id", imageID.String()))
	return nil
}
