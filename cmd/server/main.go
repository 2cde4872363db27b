package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	listingapp "github.com/dromsync/backend/internal/application/listing"
	appsync "github.com/dromsync/backend/internal/application/sync"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/dromsync/backend/internal/infrastructure/cache"
	"github.com/dromsync/backend/internal/infrastructure/config"
	"github.com/dromsync/backend/internal/infrastructure/dromapi"
	"github.com/dromsync/backend/internal/infrastructure/event"
	"github.com/dromsync/backend/internal/infrastructure/feed"
	"github.com/dromsync/backend/internal/infrastructure/logger"
	"github.com/dromsync/backend/internal/infrastructure/persistence"
	"github.com/dromsync/backend/internal/infrastructure/queue"
	"github.com/dromsync/backend/internal/infrastructure/scheduler"
	"github.com/dromsync/backend/internal/infrastructure/storage"
	"github.com/dromsync/backend/internal/interfaces/http/handler"
	"github.com/dromsync/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting drom sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Redis backs both the queue and the dedup/cache layers
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()

	// Repositories
	listingRepo := persistence.NewGormListingRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	orderItems := persistence.NewGormOrderItemsRepository(db.DB)
	resolver := persistence.NewSQLIdentifierResolver(db.DB)
	existence := persistence.NewSQLExistenceChecker(db.DB)
	feedSource := persistence.NewSQLFeedSource(db.DB)

	// Queue transport
	asynqClient := queue.NewClient(cfg)
	defer func() {
		_ = asynqClient.Close()
	}()
	dispatcher := queue.NewDispatcher(asynqClient, log)

	// Price list consumer
	renderer := feed.NewRenderer()
	dromClient := dromapi.NewClient(cfg.Drom, log)
	updater := appsync.NewPriceListUpdater(log, profileRepo, feedSource, renderer, dromClient)

	// Image storage and CDN
	imageStore, err := storage.NewLocalImageStore(cfg.Storage.LocalDir, log)
	if err != nil {
		log.Fatal("failed to initialize image storage", zap.Error(err))
	}
	var uploader queue.ImageUploader = storage.NewDisabledCDN(log)
	if cfg.Storage.S3Enabled {
		cdn, err := storage.NewS3CDN(cfg.Storage, log)
		if err != nil {
			log.Fatal("failed to initialize cdn storage", zap.Error(err))
		}
		uploader = storage.NewCDNUploader(listingRepo, imageStore, cdn, log)
	}

	// Queue worker
	worker := queue.NewServer(cfg, queue.NewServeMux(updater, uploader, log), log)
	stopWorker := worker.Start()
	defer stopWorker()

	// Event bus and sync fan-out
	bus := event.NewInMemoryEventBus(log)

	// Listing administration; the product-change reconciler shares the
	// same lifecycle so stale deletes cascade and invalidate caches
	board := cache.NewRedisBoardInvalidator(redisClient, log)
	lifecycle := listingapp.NewLifecycleHandler(log, listingRepo, imageStore, dispatcher, board, bus)

	orderStatus := appsync.NewOrderStatusHandler(log, orderItems, resolver, profileRepo, dispatcher, cfg.Sync.DispatchDelay)
	bus.Subscribe(orderStatus, orderStatus.EventTypes()...)

	productChange := appsync.NewProductChangeHandler(log, listingRepo, existence, lifecycle, profileRepo, dispatcher, cfg.Sync.DispatchDelay)
	bus.Subscribe(productChange, productChange.EventTypes()...)

	// Price and stock bursts for the same product event collapse into one run
	dedupStore := cache.NewRedisIdempotencyStore(redisClient, "sync:dedup:")
	defer func() {
		_ = dedupStore.Close()
	}()
	priceStock := event.NewIdempotentHandler(
		"price-stock",
		appsync.NewPriceStockHandler(log, listingRepo, profileRepo, dispatcher, cfg.Sync.DispatchDelay),
		dedupStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			Namespace: shared.DefaultIdempotencyConfig().Namespace,
			TTL:       cfg.Sync.DedupTTL,
			Enabled:   cfg.Sync.DedupEnabled,
		}),
	)
	bus.Subscribe(priceStock, priceStock.EventTypes()...)

	// Periodic full resync
	resync := scheduler.NewResync(profileRepo, dispatcher, cfg.Scheduler, log)
	if err := resync.Start(); err != nil {
		log.Fatal("failed to start resync scheduler", zap.Error(err))
	}
	defer resync.Stop()

	// HTTP server
	engine := router.NewEngine(cfg.App.Env, log)
	r := router.NewRouter(engine)
	r.Register(handler.NewListingHandler(lifecycle))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}
