// Package storage keeps listing image files, locally and on the CDN.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	listingapp "github.com/dromsync/backend/internal/application/listing"
)

// LocalImageStore writes listing images under a per-listing directory on the
// local filesystem. Files land here first and stay as the source for the CDN
// push.
type LocalImageStore struct {
	root   string
	logger *zap.Logger
}

// NewLocalImageStore creates a store rooted at dir, creating it if needed
func NewLocalImageStore(dir string, logger *zap.Logger) (*LocalImageStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("image storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image storage root: %w", err)
	}
	return &LocalImageStore{root: dir, logger: logger}, nil
}

var _ listingapp.ImageStore = (*LocalImageStore)(nil)

// Store writes one image file for a listing
func (s *LocalImageStore) Store(_ context.Context, listingID uuid.UUID, fileName string, data []byte) error {
	dir := filepath.Join(s.root, listingID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create listing image dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}

	s.logger.Debug("image stored",
		zap.String("listing_id", listingID.String()),
		zap.String("file", fileName),
		zap.Int("bytes", len(data)))
	return nil
}

// Load reads a stored image file back
func (s *LocalImageStore) Load(_ context.Context, listingID uuid.UUID, fileName string) ([]byte, error) {
	path := filepath.Join(s.root, listingID.String(), filepath.Base(fileName))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}

// RemoveAll deletes every stored file of a listing
func (s *LocalImageStore) RemoveAll(_ context.Context, listingID uuid.UUID) error {
	dir := filepath.Join(s.root, listingID.String())
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove listing image dir: %w", err)
	}
	return nil
}
