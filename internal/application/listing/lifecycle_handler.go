package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/dromsync/backend/internal/domain/listing"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageStore persists listing image files in local storage keyed by listing
type ImageStore interface {
	Store(ctx context.Context, listingID uuid.UUID, fileName string, data []byte) error
	RemoveAll(ctx context.Context, listingID uuid.UUID) error
}

// CDNDispatcher schedules the background push of a stored image to the CDN
type CDNDispatcher interface {
	DispatchUpload(ctx context.Context, listingID, imageID uuid.UUID) error
}

// BoardInvalidator drops cached board and category mappings that key off
// listings
type BoardInvalidator interface {
	InvalidateBoard(ctx context.Context) error
}

// LifecycleHandler drives listing create, update, delete, bulk description
// rewrite and profile-to-profile copying.
type LifecycleHandler struct {
	logger     *zap.Logger
	repo       listing.Repository
	images     ImageStore
	cdn        CDNDispatcher
	board      BoardInvalidator
	publisher  shared.EventPublisher
	validate   *validator.Validate
	flushEvery int
}

// NewLifecycleHandler creates a listing lifecycle handler
func NewLifecycleHandler(
	logger *zap.Logger,
	repo listing.Repository,
	images ImageStore,
	cdn CDNDispatcher,
	board BoardInvalidator,
	publisher shared.EventPublisher,
) *LifecycleHandler {
	return &LifecycleHandler{
		logger:     logger,
		repo:       repo,
		images:     images,
		cdn:        cdn,
		board:      board,
		publisher:  publisher,
		validate:   validator.New(),
		flushEvery: 100,
	}
}

// Save creates or updates a listing. Validation failures return an error
// carrying an opaque token; the field details stay in the log.
func (h *LifecycleHandler) Save(ctx context.Context, cmd SaveCommand) (*listing.Listing, error) {
	if err := h.validate.Struct(cmd); err != nil {
		token := uuid.New()
		h.logger.Error("listing save rejected by validation",
			zap.String("token", token.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Invalid listing data, reference %s", token))
	}

	l, err := h.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	l.SetDescription(cmd.Description)

	var pending []listing.Image
	for _, upload := range cmd.Images {
		img := listing.NewImage(upload.Name, upload.Ext, upload.Root)
		img.SortOrder = upload.SortOrder
		l.AddImage(img)

		if err := h.images.Store(ctx, l.ID, img.FileName(), upload.Data); err != nil {
			return nil, fmt.Errorf("failed to store listing image: %w", err)
		}
		pending = append(pending, img)
	}
	l.NormalizeRootImage()

	if err := h.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	for _, img := range pending {
		if err := h.cdn.DispatchUpload(ctx, l.ID, img.ID); err != nil {
			// The image serves from local storage until the next push
			h.logger.Warn("failed to schedule CDN upload",
				zap.String("listing_id", l.ID.String()),
				zap.String("image_id", img.ID.String()),
				zap.Error(err),
			)
		}
	}

	h.afterWrite(ctx, listing.NewListingSavedEvent(l))
	return l, nil
}

// resolve finds the listing to update, or creates a fresh one when neither
// the id nor the natural key matches an existing record
func (h *LifecycleHandler) resolve(ctx context.Context, cmd SaveCommand) (*listing.Listing, error) {
	if cmd.ID != nil {
		l, err := h.repo.FindByID(ctx, *cmd.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load listing: %w", err)
		}
		return l, nil
	}

	key := listing.Key{
		ProductID:         cmd.ProductID,
		OfferConst:        cmd.OfferConst,
		VariationConst:    cmd.VariationConst,
		ModificationConst: cmd.ModificationConst,
		ProfileID:         cmd.ProfileID,
		Kit:               cmd.Kit,
	}.Normalize()
	if err := key.Validate(); err != nil {
		return nil, err
	}

	l, err := h.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return listing.NewListing(key), nil
		}
		return nil, fmt.Errorf("failed to look up listing by key: %w", err)
	}
	return l, nil
}

// Delete removes a listing with its images and stored files
func (h *LifecycleHandler) Delete(ctx context.Context, id uuid.UUID) error {
	l, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	if err := h.repo.Delete(ctx, l.ID); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if err := h.images.RemoveAll(ctx, l.ID); err != nil {
		h.logger.Warn("failed to remove stored listing images",
			zap.String("listing_id", l.ID.String()),
			zap.Error(err),
		)
	}

	h.afterWrite(ctx, listing.NewListingDeletedEvent(l))
	return nil
}

// UpdateDescription rewrites the description of all listings of a profile,
// flushing in bounded batches to keep memory flat on large catalogs
func (h *LifecycleHandler) UpdateDescription(ctx context.Context, cmd UpdateDescriptionCommand) (int, error) {
	if err := h.validate.Struct(cmd); err != nil {
		token := uuid.New()
		h.logger.Error("description update rejected by validation",
			zap.String("token", token.String()),
			zap.Error(err),
		)
		return 0, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Invalid description data, reference %s", token))
	}

	all, err := h.repo.FindAllByProfile(ctx, cmd.ProfileID)
	if err != nil {
		return 0, fmt.Errorf("failed to load profile listings: %w", err)
	}

	batch := make([]*listing.Listing, 0, h.flushEvery)
	updated := 0
	for i := range all {
		l := &all[i]
		desc := cmd.Description
		l.SetDescription(&desc)
		batch = append(batch, l)

		if len(batch) >= h.flushEvery {
			if err := h.repo.SaveBatch(ctx, batch); err != nil {
				return updated, fmt.Errorf("failed to flush description batch: %w", err)
			}
			updated += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := h.repo.SaveBatch(ctx, batch); err != nil {
			return updated, fmt.Errorf("failed to flush description batch: %w", err)
		}
		updated += len(batch)
	}

	h.logger.Info("profile descriptions updated",
		zap.String("profile_id", cmd.ProfileID.String()),
		zap.Int("listings", updated),
	)
	return updated, nil
}

// CopyProfile copies every listing of one profile to another. Listings whose
// natural key already exists on the target are skipped, so the operation is
// safe to re-run.
func (h *LifecycleHandler) CopyProfile(ctx context.Context, sourceID, targetID uuid.UUID) (int, error) {
	if sourceID == targetID {
		return 0, shared.NewDomainError("INVALID_INPUT", "Source and target profile must differ")
	}

	all, err := h.repo.FindAllByProfile(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to load source listings: %w", err)
	}

	copied := 0
	for i := range all {
		src := &all[i]
		key := src.Key()
		key.ProfileID = targetID

		if _, err := h.repo.FindByKey(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return copied, fmt.Errorf("failed to look up target listing: %w", err)
		}

		dst := listing.NewListing(key)
		dst.SetDescription(src.Description)
		for _, img := range src.Images {
			dup := listing.NewImage(img.Name, img.Ext, img.Root)
			dup.SortOrder = img.SortOrder
			dst.AddImage(dup)
		}
		dst.NormalizeRootImage()

		if err := h.repo.Save(ctx, dst); err != nil {
			return copied, fmt.Errorf("failed to save copied listing: %w", err)
		}
		h.afterWrite(ctx, listing.NewListingSavedEvent(dst))
		copied++
	}

	h.logger.Info("profile listings copied",
		zap.String("source_profile", sourceID.String()),
		zap.String("target_profile", targetID.String()),
		zap.Int("copied", copied),
	)
	return copied, nil
}

// afterWrite publishes the lifecycle event and drops board caches. Neither
// failure rolls back the write.
func (h *LifecycleHandler) afterWrite(ctx context.Context, event shared.DomainEvent) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish listing event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
	if err := h.board.InvalidateBoard(ctx); err != nil {
		h.logger.Warn("failed to invalidate board cache", zap.Error(err))
	}
}
