package http

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/pagination"

	"github.com/MSP-Team3/kyeol-storefront/internal/commerce"
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

func (m *mockCommerceAPI) TokenCreate(ctx context.Context, email, password string) (commerce.Tokens, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(commerce.Tokens), args.Error(1)
}

func (m *mockCommerceAPI) TokenRefresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *mockCommerceAPI) CurrentUser(ctx context.Context, bearer string) (*domain.User, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockCommerceAPI) Products(ctx context.Context, channel string, params pagination.Params) (pagination.Connection[domain.Product], error) {
	args := m.Called(ctx, channel, params)
	return args.Get(0).(pagination.Connection[domain.Product]), args.Error(1)
}

// stubCache is an in-memory view cache for handler tests.
type stubCache struct {
	mu sync.Mutex
	m  map[string]*domain.Checkout
}

func newStubCache() *stubCache {
	return &stubCache{m: make(map[string]*domain.Checkout)}
}

func (c *stubCache) Get(ctx context.Context, id string) (*domain.Checkout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if co, ok := c.m[id]; ok {
		return co, nil
	}
	return nil, apperrors.NotFound("checkout view", id)
}

func (c *stubCache) Set(ctx context.Context, checkout *domain.Checkout) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[checkout.ID] = checkout
	return nil
}

func (c *stubCache) Invalidate(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
	return nil
}

// stubEvents swallows all events.
type stubEvents struct{}

func (stubEvents) CheckoutCreated(context.Context, *domain.Checkout) error        { return nil }
func (stubEvents) LineAdded(context.Context, *domain.Checkout, string) error      { return nil }
func (stubEvents) LinesDeleted(context.Context, *domain.Checkout, []string) error { return nil }
func (stubEvents) CustomerAttached(context.Context, string, string) error         { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
