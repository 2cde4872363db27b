// Command copyprofile clones all listings of one merchant profile onto
// another. Listings already present on the target keep their state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	listingapp "github.com/dromsync/backend/internal/application/listing"
	"github.com/dromsync/backend/internal/infrastructure/cache"
	"github.com/dromsync/backend/internal/infrastructure/config"
	"github.com/dromsync/backend/internal/infrastructure/event"
	"github.com/dromsync/backend/internal/infrastructure/logger"
	"github.com/dromsync/backend/internal/infrastructure/persistence"
	"github.com/dromsync/backend/internal/infrastructure/queue"
	"github.com/dromsync/backend/internal/infrastructure/storage"
)

func main() {
	var (
		sourceRaw string
		targetRaw string
	)
	flag.StringVar(&sourceRaw, "source", "", "Source profile id")
	flag.StringVar(&targetRaw, "target", "", "Target profile id")
	flag.Parse()

	sourceID, err := uuid.Parse(sourceRaw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -source profile id")
		os.Exit(2)
	}
	targetID, err := uuid.Parse(targetRaw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -target profile id")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()

	asynqClient := queue.NewClient(cfg)
	defer func() {
		_ = asynqClient.Close()
	}()

	imageStore, err := storage.NewLocalImageStore(cfg.Storage.LocalDir, log)
	if err != nil {
		log.Fatal("failed to initialize image storage", zap.Error(err))
	}

	listingRepo := persistence.NewGormListingRepository(db.DB)
	lifecycle := listingapp.NewLifecycleHandler(
		log,
		listingRepo,
		imageStore,
		queue.NewDispatcher(asynqClient, log),
		cache.NewRedisBoardInvalidator(redisClient, log),
		event.NewInMemoryEventBus(log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	copied, err := lifecycle.CopyProfile(ctx, sourceID, targetID)
	if err != nil {
		log.Fatal("copy failed", zap.Error(err), zap.Int("copied", copied))
	}

	log.Info("profile listings copied",
		zap.String("source", sourceID.String()),
		zap.String("target", targetID.String()),
		zap.Int("copied", copied),
	)
}
