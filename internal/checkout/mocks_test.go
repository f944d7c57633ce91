package checkout

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

type mockCommerceAPI struct {
	mock.Mock
}

func (m *mockCommerceAPI) CheckoutFind(ctx context.Context, id string) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockCommerceAPI) CheckoutCreate(ctx context.Context, channel string) (*domain.Checkout, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockCommerceAPI) CheckoutLinesAdd(ctx context.Context, id, variantID string) (*domain.Checkout, error) {
	args := m.Called(ctx, id, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockCommerceAPI) CheckoutLinesDelete(ctx context.Context, id string, lineIDs []string) (*domain.Checkout, error) {
	args := m.Called(ctx, id, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockCommerceAPI) CheckoutCustomerAttach(ctx context.Context, id, bearer string) error {
	args := m.Called(ctx, id, bearer)
	return args.Error(0)
}

func (m *mockCommerceAPI) CurrentUser(ctx context.Context, bearer string) (*domain.User, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockViewCache struct {
	mock.Mock
}

func (m *mockViewCache) Get(ctx context.Context, id string) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockViewCache) Set(ctx context.Context, checkout *domain.Checkout) error {
	args := m.Called(ctx, checkout)
	return args.Error(0)
}

func (m *mockViewCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockEventSink struct {
	mock.Mock
}

func (m *mockEventSink) CheckoutCreated(ctx context.Context, checkout *domain.Checkout) error {
	args := m.Called(ctx, checkout)
	return args.Error(0)
}

func (m *mockEventSink) LineAdded(ctx context.Context, checkout *domain.Checkout, variantID string) error {
	args := m.Called(ctx, checkout, variantID)
	return args.Error(0)
}

func (m *mockEventSink) LinesDeleted(ctx context.Context, checkout *domain.Checkout, lineIDs []string) error {
	args := m.Called(ctx, checkout, lineIDs)
	return args.Error(0)
}

func (m *mockEventSink) CustomerAttached(ctx context.Context, checkoutID, userID string) error {
	args := m.Called(ctx, checkoutID, userID)
	return args.Error(0)
}

// quietEvents accepts every event. Most tests do not care about publishing.
func quietEvents() *mockEventSink {
	events := new(mockEventSink)
	events.On("CheckoutCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	events.On("LineAdded", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	events.On("LinesDeleted", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	events.On("CustomerAttached", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return events
}

// quietCache accepts every invalidation.
func quietCache() *mockViewCache {
	cache := new(mockViewCache)
	cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Maybe()
	return cache
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
