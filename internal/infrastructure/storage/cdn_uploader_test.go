package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dromsync/backend/internal/domain/listing"
	"github.com/dromsync/backend/internal/domain/shared"
)

type fakeListingRepo struct {
	byID    map[uuid.UUID]*listing.Listing
	saved   []*listing.Listing
	saveErr error
}

func newFakeListingRepo(ls ...*listing.Listing) *fakeListingRepo {
	repo := &fakeListingRepo{byID: make(map[uuid.UUID]*listing.Listing)}
	for _, l := range ls {
		repo.byID[l.ID] = l
	}
	return repo
}

func (r *fakeListingRepo) FindByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

func (r *fakeListingRepo) FindByKey(context.Context, listing.Key) (*listing.Listing, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeListingRepo) FindAllByProduct(context.Context, uuid.UUID) ([]listing.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) FindAllByProductEvent(context.Context, uuid.UUID) ([]listing.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) FindAllByProfile(context.Context, uuid.UUID) ([]listing.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) Save(_ context.Context, l *listing.Listing) error {
	r.saved = append(r.saved, l)
	return r.saveErr
}

func (r *fakeListingRepo) SaveBatch(context.Context, []*listing.Listing) error { return nil }

func (r *fakeListingRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeFiles struct {
	data map[string][]byte
}

func (f *fakeFiles) Load(_ context.Context, _ uuid.UUID, fileName string) ([]byte, error) {
	data, ok := f.data[fileName]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

type fakeCDN struct {
	keys         []string
	contentTypes []string
	err          error
}

func (f *fakeCDN) Put(_ context.Context, key, contentType string, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return nil
}

func newListingWithImage(t *testing.T) (*listing.Listing, uuid.UUID) {
	t.Helper()
	l := listing.NewListing(listing.Key{ProductID: uuid.New(), ProfileID: uuid.New(), Kit: 1})
	l.AddImage(listing.NewImage("front", "jpg", true))
	return l, l.Images[0].ID
}

func TestCDNUploader(t *testing.T) {
	t.Run("uploads the file and flags the image", func(t *testing.T) {
		l, imageID := newListingWithImage(t)
		repo := newFakeListingRepo(l)
		files := &fakeFiles{data: map[string][]byte{"front.jpg": []byte("jpeg")}}
		cdn := &fakeCDN{}

		u := NewCDNUploader(repo, files, cdn, zap.NewNop())
		require.NoError(t, u.Upload(context.Background(), l.ID, imageID))

		require.Len(t, cdn.keys, 1)
		assert.Equal(t, "listings/"+l.ID.String()+"/front.jpg", cdn.keys[0])
		assert.Equal(t, "image/jpeg", cdn.contentTypes[0])
		assert.True(t, l.Images[0].CDN)
		require.Len(t, repo.saved, 1)
	})

	t.Run("image removed after enqueue is skipped quietly", func(t *testing.T) {
		l, _ := newListingWithImage(t)
		repo := newFakeListingRepo(l)
		cdn := &fakeCDN{}

		u := NewCDNUploader(repo, &fakeFiles{}, cdn, zap.NewNop())
		require.NoError(t, u.Upload(context.Background(), l.ID, uuid.New()))

		assert.Empty(t, cdn.keys)
		assert.Empty(t, repo.saved)
	})

	t.Run("already uploaded image is not pushed again", func(t *testing.T) {
		l, imageID := newListingWithImage(t)
		l.Images[0].MarkUploaded()
		repo := newFakeListingRepo(l)
		cdn := &fakeCDN{}

		u := NewCDNUploader(repo, &fakeFiles{}, cdn, zap.NewNop())
		require.NoError(t, u.Upload(context.Background(), l.ID, imageID))
		assert.Empty(t, cdn.keys)
	})

	t.Run("cdn failure keeps the image unflagged for retry", func(t *testing.T) {
		l, imageID := newListingWithImage(t)
		repo := newFakeListingRepo(l)
		files := &fakeFiles{data: map[string][]byte{"front.jpg": []byte("jpeg")}}
		cdn := &fakeCDN{err: errors.New("bucket unavailable")}

		u := NewCDNUploader(repo, files, cdn, zap.NewNop())
		err := u.Upload(context.Background(), l.ID, imageID)

		require.Error(t, err)
		assert.False(t, l.Images[0].CDN)
		assert.Empty(t, repo.saved)
	})

	t.Run("missing listing surfaces an error", func(t *testing.T) {
		u := NewCDNUploader(newFakeListingRepo(), &fakeFiles{}, &fakeCDN{}, zap.NewNop())
		err := u.Upload(context.Background(), uuid.New(), uuid.New())
		assert.Error(t, err)
	})
}
