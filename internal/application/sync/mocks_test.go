package sync

import (
	"context"
	"time"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/dromsync/backend/internal/domain/listing"
	"github.com/dromsync/backend/internal/domain/order"
	"github.com/dromsync/backend/internal/domain/profile"
	syncdomain "github.com/dromsync/backend/internal/domain/sync"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCurrentOrderItems struct {
	mock.Mock
}

func (m *MockCurrentOrderItems) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]order.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.OrderItem), args.Error(1)
}

type MockIdentifierResolver struct {
	mock.Mock
}

func (m *MockIdentifierResolver) ResolveByEvent(ctx context.Context, eventID uuid.UUID, offerID, variationID, modificationID *uuid.UUID) (*catalog.ProductIdentifier, error) {
	args := m.Called(ctx, eventID, offerID, variationID, modificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductIdentifier), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.MerchantProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.MerchantProfile), args.Error(1)
}

func (m *MockProfileRepository) FindActiveWithToken(ctx context.Context) ([]profile.MerchantProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]profile.MerchantProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *profile.MerchantProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockCommandDispatcher struct {
	mock.Mock
}

func (m *MockCommandDispatcher) Dispatch(ctx context.Context, cmd syncdomain.Command, delay time.Duration) error {
	args := m.Called(ctx, cmd, delay)
	return args.Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByKey(ctx context.Context, key listing.Key) (*listing.Listing, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]listing.Listing, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAllByProductEvent(ctx context.Context, productEventID uuid.UUID) ([]listing.Listing, error) {
	args := m.Called(ctx, productEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAllByProfile(ctx context.Context, profileID uuid.UUID) ([]listing.Listing, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) SaveBatch(ctx context.Context, ls []*listing.Listing) error {
	args := m.Called(ctx, ls)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockExistenceChecker struct {
	mock.Mock
}

func (m *MockExistenceChecker) Exists(ctx context.Context, tuple catalog.SelectorTuple) (bool, error) {
	args := m.Called(ctx, tuple)
	return args.Bool(0), args.Error(1)
}

type MockFeedSource struct {
	mock.Mock
}

func (m *MockFeedSource) RowsForProfile(ctx context.Context, profileID uuid.UUID, filter FeedFilter) ([]FeedRow, error) {
	args := m.Called(ctx, profileID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FeedRow), args.Error(1)
}

type MockListingRemover struct {
	mock.Mock
}

func (m *MockListingRemover) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFeedRenderer struct {
	mock.Mock
}

func (m *MockFeedRenderer) Render(profileID uuid.UUID, rows []FeedRow) ([]byte, error) {
	args := m.Called(profileID, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockDromClient struct {
	mock.Mock
}

func (m *MockDromClient) Post(ctx context.Context, priceListID, authKey string, payload []byte) (bool, error) {
	args := m.Called(ctx, priceListID, authKey, payload)
	return args.Bool(0), args.Error(1)
}
