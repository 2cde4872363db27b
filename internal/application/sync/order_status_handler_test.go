package sync

import (
	"context"
	"testing"
	"time"

	"github.com/dromsync/backend/internal/domain/catalog"
	"github.com/dromsync/backend/internal/domain/order"
	"github.com/dromsync/backend/internal/domain/profile"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testDelay = 5 * time.Second

func newOrderItem(orderID uuid.UUID) order.OrderItem {
	return order.OrderItem{
		BaseEntity:     shared.NewBaseEntity(),
		OrderID:        orderID,
		ProductEventID: uuid.New(),
		Quantity:       1,
	}
}

func newProfile(name string) profile.MerchantProfile {
	return profile.MerchantProfile{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		PriceListID: "packet-" + name,
		AuthKey:     "key-" + name,
		Active:      true,
		TokenValid:  true,
	}
}

func TestOrderStatusHandler_FanOut(t *testing.T) {
	items := new(MockCurrentOrderItems)
	resolver := new(MockIdentifierResolver)
	profiles := new(MockProfileRepository)
	dispatcher := new(MockCommandDispatcher)
	handler := NewOrderStatusHandler(zap.NewNop(), items, resolver, profiles, dispatcher, testDelay)

	orderID := uuid.New()
	itemA := newOrderItem(orderID)
	itemB := newOrderItem(orderID)

	items.On("FindByOrderID", mock.Anything, orderID).
		Return([]order.OrderItem{itemA, itemB}, nil)
	profiles.On("FindActiveWithToken", mock.Anything).
		Return([]profile.MerchantProfile{newProfile("a"), newProfile("b")}, nil)
	resolver.On("ResolveByEvent", mock.Anything, itemA.ProductEventID, (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return(&catalog.ProductIdentifier{ProductID: uuid.New()}, nil)
	resolver.On("ResolveByEvent", mock.Anything, itemB.ProductEventID, (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return(&catalog.ProductIdentifier{ProductID: uuid.New()}, nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, testDelay).Return(nil)

	event := order.NewOrderStatusChangedEvent(orderID, order.StatusPackage)
	err := handler.Handle(context.Background(), event)

	assert.NoError(t, err)
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 4)
}

func TestOrderStatusHandler_NoEligibleProfiles(t *testing.T) {
	items := new(MockCurrentOrderItems)
	resolver := new(MockIdentifierResolver)
	profiles := new(MockProfileRepository)
	dispatcher := new(MockCommandDispatcher)
	handler := NewOrderStatusHandler(zap.NewNop(), items, resolver, profiles, dispatcher, testDelay)

	orderID := uuid.New()
	items.On("FindByOrderID", mock.Anything, orderID).
		Return([]order.OrderItem{newOrderItem(orderID)}, nil)
	profiles.On("FindActiveWithToken", mock.Anything).
		Return(nil, shared.ErrNoActiveProfiles)

	err := handler.Handle(context.Background(), order.NewOrderStatusChangedEvent(orderID, order.StatusCompleted))

	assert.NoError(t, err)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
	resolver.AssertNotCalled(t, "ResolveByEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderStatusHandler_SkipsUnresolvableItem(t *testing.T) {
	items := new(MockCurrentOrderItems)
	resolver := new(MockIdentifierResolver)
	profiles := new(MockProfileRepository)
	dispatcher := new(MockCommandDispatcher)
	handler := NewOrderStatusHandler(zap.NewNop(), items, resolver, profiles, dispatcher, testDelay)

	orderID := uuid.New()
	gone := newOrderItem(orderID)
	alive := newOrderItem(orderID)

	items.On("FindByOrderID", mock.Anything, orderID).
		Return([]order.OrderItem{gone, alive}, nil)
	profiles.On("FindActiveWithToken", mock.Anything).
		Return([]profile.MerchantProfile{newProfile("a")}, nil)
	resolver.On("ResolveByEvent", mock.Anything, gone.ProductEventID, (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return(nil, shared.ErrNotFound)
	resolver.On("ResolveByEvent", mock.Anything, alive.ProductEventID, (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return(&catalog.ProductIdentifier{ProductID: uuid.New()}, nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, testDelay).Return(nil)

	err := handler.Handle(context.Background(), order.NewOrderStatusChangedEvent(orderID, order.StatusCanceled))

	assert.NoError(t, err)
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestOrderStatusHandler_OrderNotFound(t *testing.T) {
	items := new(MockCurrentOrderItems)
	resolver := new(MockIdentifierResolver)
	profiles := new(MockProfileRepository)
	dispatcher := new(MockCommandDispatcher)
	handler := NewOrderStatusHandler(zap.NewNop(), items, resolver, profiles, dispatcher, testDelay)

	orderID := uuid.New()
	items.On("FindByOrderID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

	err := handler.Handle(context.Background(), order.NewOrderStatusChangedEvent(orderID, order.StatusNew))

	assert.NoError(t, err)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderStatusHandler_RejectsForeignEvent(t *testing.T) {
	handler := NewOrderStatusHandler(zap.NewNop(), new(MockCurrentOrderItems), new(MockIdentifierResolver), new(MockProfileRepository), new(MockCommandDispatcher), testDelay)

	err := handler.Handle(context.Background(), catalog.NewProductChangedEvent(uuid.New()))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected event type")
}
