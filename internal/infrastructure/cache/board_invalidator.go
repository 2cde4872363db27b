package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BoardNamespace prefixes every cached board and category mapping entry
const BoardNamespace = "drom-board"

// RedisBoardInvalidator drops the drom-board cache namespace. Board pages
// and category mappings key off listings, so any listing write flushes the
// whole namespace rather than tracking per-entry dependencies.
type RedisBoardInvalidator struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBoardInvalidator creates a board cache invalidator
func NewRedisBoardInvalidator(client *redis.Client, logger *zap.Logger) *RedisBoardInvalidator {
	return &RedisBoardInvalidator{
		client: client,
		logger: logger,
	}
}

// InvalidateBoard removes every key in the board namespace.
// SCAN keeps the operation incremental; a large flush never blocks Redis.
func (i *RedisBoardInvalidator) InvalidateBoard(ctx context.Context) error {
	var cursor uint64
	removed := 0

	for {
		keys, next, err := i.client.Scan(ctx, cursor, BoardNamespace+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan board cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err := i.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete board cache keys: %w", err)
			}
			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if removed > 0 {
		i.logger.Debug("board cache invalidated", zap.Int("keys", removed))
	}
	return nil
}
