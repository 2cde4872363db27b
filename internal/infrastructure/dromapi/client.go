// Package dromapi talks to the Drom marketplace price list endpoint.
package dromapi

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/dromsync/backend/internal/infrastructure/config"
)

const syncPath = "/good/packet/api/sync"

// Client posts price list feeds to the Drom marketplace. Transport-level
// retries with backoff are configured on the underlying HTTP client; the
// caller only sees the final outcome.
type Client struct {
	http       *resty.Client
	maxPayload int64
	logger     *zap.Logger
}

// NewClient creates a marketplace client from the Drom section of the config
func NewClient(cfg config.DromConfig, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetHeader("User-Agent", "dromsync/1.0")

	return &Client{
		http:       http,
		maxPayload: cfg.MaxPayloadBytes,
		logger:     logger,
	}
}

// Post uploads one rendered feed for the given price list. The auth key is
// never sent raw; the endpoint expects its sha512 hex digest. A non-200
// response means the marketplace rejected the packet and returns (false, nil)
// so the caller decides how to react. Only transport failures return an error.
func (c *Client) Post(ctx context.Context, priceListID, authKey string, payload []byte) (bool, error) {
	if priceListID == "" || authKey == "" {
		return false, fmt.Errorf("%w: price list id and auth key must be set", shared.ErrInvalidInput)
	}
	if int64(len(payload)) > c.maxPayload {
		return false, fmt.Errorf("%w: feed payload %d bytes exceeds limit %d", shared.ErrInvalidInput, len(payload), c.maxPayload)
	}

	digest := sha512.Sum512([]byte(authKey))

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"packetId": priceListID,
			"auth":     hex.EncodeToString(digest[:]),
			"xml":      string(payload),
		}).
		Post(syncPath)
	if err != nil {
		return false, fmt.Errorf("post price list %s: %w", priceListID, err)
	}

	if resp.StatusCode() != 200 {
		c.logger.Warn("marketplace rejected price list packet",
			zap.String("price_list_id", priceListID),
			zap.Int("status", resp.StatusCode()),
			zap.Int("payload_bytes", len(payload)))
		return false, nil
	}

	c.logger.Debug("price list packet accepted",
		zap.String("price_list_id", priceListID),
		zap.Int("payload_bytes", len(payload)))
	return true, nil
}
