package queue

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/dromsync/backend/internal/infrastructure/config"
)

// Server wraps the asynq worker consuming the drom-products queue
type Server struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewServer creates a worker server bound to the drom-products queue
func NewServer(cfg *config.Config, mux *asynq.ServeMux, logger *zap.Logger) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues:      map[string]int{QueueName: 1},
		},
	)
	return &Server{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in a goroutine and returns a shutdown func
func (s *Server) Start() func() {
	go func() {
		if err := s.srv.Run(s.mux); err != nil {
			s.logger.Fatal("queue worker stopped", zap.Error(err))
		}
	}()
	s.logger.Info("queue worker started", zap.String("queue", QueueName))
	return func() {
		s.srv.Shutdown()
		s.logger.Info("queue worker shut down")
	}
}

// NewClient creates an asynq client for enqueueing tasks
func NewClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
