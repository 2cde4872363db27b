package queue

import "github.com/google/uuid"

// QueueName is the dedicated asynq queue for marketplace synchronization.
// Keeping it separate from the default queue lets the worker pool be tuned
// without affecting other background work.
const QueueName = "drom-products"

// Task type names routed by the worker mux.
const (
	TaskPriceListUpdate = "drom:pricelist:update"
	TaskImageCDNUpload  = "drom:image:cdn"
)

// ImageCDNPayload identifies one stored listing image to push to the CDN.
type ImageCDNPayload struct {
	ListingID uuid.UUID `json:"listing_id"`
	ImageID   uuid.UUID `json:"image_id"`
}
