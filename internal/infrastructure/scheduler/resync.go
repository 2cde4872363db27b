// Package scheduler runs the periodic full price-list resynchronization.
package scheduler

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	syncdomain "github.com/dromsync/backend/internal/domain/sync"
	"github.com/dromsync/backend/internal/infrastructure/config"
)

// Resync periodically enqueues one price-list refresh per eligible profile.
// Event-driven updates keep the marketplace current in steady state; the
// nightly pass repairs whatever a missed event or failed upload left behind.
type Resync struct {
	cron       *cron.Cron
	profiles   profile.Repository
	dispatcher syncdomain.CommandDispatcher
	cfg        config.SchedulerConfig
	logger     *zap.Logger
}

// NewResync creates the resync scheduler
func NewResync(
	profiles profile.Repository,
	dispatcher syncdomain.CommandDispatcher,
	cfg config.SchedulerConfig,
	logger *zap.Logger,
) *Resync {
	return &Resync{
		cron:       cron.New(),
		profiles:   profiles,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the cron entry and begins the schedule
func (r *Resync) Start() error {
	if !r.cfg.Enabled {
		r.logger.Info("resync scheduler disabled")
		return nil
	}

	_, err := r.cron.AddFunc(r.cfg.ResyncCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Error("resync run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("resync scheduler started", zap.String("cron", r.cfg.ResyncCron))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish
func (r *Resync) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce enqueues a full refresh for every profile holding a valid
// marketplace authorization. The jitter spreads the enqueued commands so the
// marketplace does not receive every profile's feed at the same instant.
func (r *Resync) RunOnce(ctx context.Context) error {
	profiles, err := r.profiles.FindActiveWithToken(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNoActiveProfiles) {
			r.logger.Info("resync skipped, no profiles with valid marketplace authorization")
			return nil
		}
		return err
	}

	for _, p := range profiles {
		delay := time.Duration(0)
		if r.cfg.ResyncJitter > 0 {
			delay = time.Duration(rand.Int63n(int64(r.cfg.ResyncJitter)))
		}
		// A zero product id selects the profile's whole mapped catalog
		cmd := syncdomain.NewCommand(p.ID, uuid.Nil, nil, nil, nil)
		if err := r.dispatcher.Dispatch(ctx, cmd, delay); err != nil {
			return err
		}
	}

	r.logger.Info("resync enqueued", zap.Int("profiles", len(profiles)))
	return nil
}
