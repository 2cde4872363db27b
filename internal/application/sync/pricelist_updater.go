package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	syncdomain "github.com/dromsync/backend/internal/domain/sync"
	"go.uber.org/zap"
)

// PriceListUpdater consumes drom-products commands. Each command loads the
// profile's mapped rows narrowed by the command's product selector (a zero
// product id selects the whole profile), renders them and posts in one shot,
// so however many commands a burst produced, each execution reflects the
// latest state.
type PriceListUpdater struct {
	logger   *zap.Logger
	profiles profile.Repository
	source   FeedSource
	renderer FeedRenderer
	client   DromClient
}

// NewPriceListUpdater creates the drom-products command consumer
func NewPriceListUpdater(
	logger *zap.Logger,
	profiles profile.Repository,
	source FeedSource,
	renderer FeedRenderer,
	client DromClient,
) *PriceListUpdater {
	return &PriceListUpdater{
		logger:   logger,
		profiles: profiles,
		source:   source,
		renderer: renderer,
		client:   client,
	}
}

// Update uploads the price-list rows the command selects for its profile.
// Missing authorization, missing rows and a missing feed template end the
// run quietly; only transport failures propagate so the queue can retry.
func (u *PriceListUpdater) Update(ctx context.Context, cmd syncdomain.Command) error {
	p, err := u.profiles.FindByID(ctx, cmd.ProfileID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			u.logger.Warn("profile not found, skipping price-list update",
				zap.String("profile_id", cmd.ProfileID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if !p.Eligible() {
		u.logger.Warn("profile has no valid marketplace authorization, skipping",
			zap.String("profile_id", p.ID.String()),
		)
		return nil
	}

	filter := FeedFilter{
		ProductID:         cmd.ProductID,
		OfferConst:        cmd.OfferConst,
		VariationConst:    cmd.VariationConst,
		ModificationConst: cmd.ModificationConst,
	}
	rows, err := u.source.RowsForProfile(ctx, p.ID, filter)
	if err != nil {
		return fmt.Errorf("failed to load feed rows: %w", err)
	}
	if len(rows) == 0 {
		u.logger.Warn("no mapped products for profile, nothing to upload",
			zap.String("profile_id", p.ID.String()),
			zap.String("product_id", cmd.ProductID.String()),
		)
		return nil
	}

	payload, err := u.renderer.Render(p.ID, rows)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			u.logger.Warn("no feed template for profile, skipping upload",
				zap.String("profile_id", p.ID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to render price list: %w", err)
	}

	ok, err := u.client.Post(ctx, p.PriceListID, p.AuthKey, payload)
	if err != nil {
		return fmt.Errorf("failed to upload price list: %w", err)
	}
	if !ok {
		u.logger.Error("marketplace rejected price list",
			zap.String("profile_id", p.ID.String()),
			zap.Int("rows", len(rows)),
		)
		return nil
	}

	u.logger.Info("price list uploaded",
		zap.String("profile_id", p.ID.String()),
		zap.Int("rows", len(rows)),
	)
	return nil
}
