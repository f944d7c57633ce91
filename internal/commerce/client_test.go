package commerce

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/httpclient"
	"github.com/MSP-Team3/kyeol-storefront/pkg/pagination"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient points a Client at an httptest server with retries disabled
// so failure tests run a single request.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 10,
	})
	cb := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("commerce-api-test"),
		testLogger(),
	)
	return New(srv.URL, cb, testLogger())
}

// gqlHandler decodes the GraphQL request and replies with the given data
// object.
func gqlHandler(t *testing.T, data string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Query)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":` + data + `}`))
	}
}

func TestCheckoutFind(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the checkout payload", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{
			"checkout": {
				"id": "co-1",
				"channel": {"slug": "default-channel"},
				"user": {"id": "u1", "email": "jo@example.com"},
				"totalQuantity": 2,
				"lines": [
					{"id": "line-1", "quantity": 2, "variant": {"id": "var-1"}}
				]
			}
		}`))

		co, err := c.CheckoutFind(ctx, "co-1")
		require.NoError(t, err)
		assert.Equal(t, "co-1", co.ID)
		assert.Equal(t, "default-channel", co.Channel)
		require.NotNil(t, co.User)
		assert.Equal(t, "u1", co.User.ID)
		assert.True(t, co.Attached())
		require.Len(t, co.Lines, 1)
		assert.Equal(t, "var-1", co.Lines[0].VariantID)
	})

	t.Run("null checkout is a not-found absence", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{"checkout": null}`))

		_, err := c.CheckoutFind(ctx, "co-gone")
		require.Error(t, err)
		assert.True(t, apperrors.IsAbsence(err))
	})

	t.Run("HTTP 500 is an upstream failure, not an absence", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		})

		_, err := c.CheckoutFind(ctx, "co-1")
		require.Error(t, err)
		assert.False(t, apperrors.IsAbsence(err))
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})

	t.Run("top-level GraphQL errors are operation errors", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"errors":[{"message":"internal error"}]}`))
		})

		_, err := c.CheckoutFind(ctx, "co-1")
		require.Error(t, err)
		var opErr *OperationError
		require.ErrorAs(t, err, &opErr)
		assert.False(t, apperrors.IsAbsence(err))
	})
}

func TestCheckoutCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the new checkout", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{
			"checkoutCreate": {
				"checkout": {"id": "co-new", "channel": {"slug": "eu"}, "totalQuantity": 0, "lines": []},
				"errors": []
			}
		}`))

		co, err := c.CheckoutCreate(ctx, "eu")
		require.NoError(t, err)
		assert.Equal(t, "co-new", co.ID)
		assert.False(t, co.Attached())
	})

	t.Run("payload errors become mutation errors", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{
			"checkoutCreate": {
				"checkout": null,
				"errors": [{"field": "channel", "message": "Channel not found.", "code": "NOT_FOUND"}]
			}
		}`))

		_, err := c.CheckoutCreate(ctx, "nope")
		require.Error(t, err)
		var mutErr *MutationError
		require.ErrorAs(t, err, &mutErr)
		assert.Contains(t, mutErr.Error(), "Channel not found.")
	})
}

func TestCheckoutCustomerAttach(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards the bearer token", func(t *testing.T) {
		var gotAuth string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"checkoutCustomerAttach":{"checkout":{"id":"co-1"},"errors":[]}}}`))
		})

		require.NoError(t, c.CheckoutCustomerAttach(ctx, "co-1", "tok-abc"))
		assert.Equal(t, "Bearer tok-abc", gotAuth)
	})

	t.Run("already attached surfaces as a mutation error", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{
			"checkoutCustomerAttach": {
				"checkout": null,
				"errors": [{"field": null, "message": "Checkout is already attached to a user", "code": "INVALID"}]
			}
		}`))

		err := c.CheckoutCustomerAttach(ctx, "co-1", "tok-abc")
		require.Error(t, err)
		var mutErr *MutationError
		require.ErrorAs(t, err, &mutErr)
		assert.Contains(t, err.Error(), "already attached")
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("empty bearer short-circuits to an unauthorized absence", func(t *testing.T) {
		called := false
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := c.CurrentUser(ctx, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsAbsence(err))
		assert.False(t, called, "no request should be made without a token")
	})

	t.Run("null me is an unauthorized absence", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{"me": null}`))

		_, err := c.CurrentUser(ctx, "tok-expired")
		require.Error(t, err)
		assert.True(t, apperrors.IsAbsence(err))
	})

	t.Run("resolves the customer", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{"me": {"id": "u1", "email": "jo@example.com"}}`))

		user, err := c.CurrentUser(ctx, "tok-abc")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "jo@example.com", user.Email)
	})
}

func TestTokenCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the token pair", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{
			"tokenCreate": {"token": "acc", "refreshToken": "ref", "errors": []}
		}`))

		tokens, err := c.TokenCreate(ctx, "jo@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "acc", tokens.Access)
		assert.Equal(t, "ref", tokens.Refresh)
	})

	t.Run("wrong credentials become a mutation error", func(t *testing.T) {
		c := newTestClient(t, gqlHandler(t, `{
			"tokenCreate": {"token": null, "refreshToken": null, "errors": [{"field": "email", "message": "Invalid credentials", "code": "INVALID_CREDENTIALS"}]}
		}`))

		_, err := c.TokenCreate(ctx, "jo@example.com", "wrong")
		require.Error(t, err)
		var mutErr *MutationError
		assert.ErrorAs(t, err, &mutErr)
	})
}

func TestProducts(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, gqlHandler(t, `{
		"products": {
			"edges": [
				{"node": {
					"id": "p1", "slug": "widget", "name": "Widget",
					"thumbnail": {"url": "https://img.example.com/w.jpg"},
					"pricing": {"priceRange": {"start": {"gross": {"amount": 19.9, "currency": "USD"}}}}
				}},
				{"node": {"id": "p2", "slug": "gadget", "name": "Gadget", "thumbnail": null, "pricing": null}}
			],
			"pageInfo": {"endCursor": "cur-2", "hasNextPage": true}
		}
	}`))

	conn, err := c.Products(ctx, "default-channel", pagination.Params{First: 2})
	require.NoError(t, err)
	require.Len(t, conn.Data, 2)
	assert.Equal(t, "Widget", conn.Data[0].Name)
	assert.Equal(t, "https://img.example.com/w.jpg", conn.Data[0].Thumbnail)
	assert.InDelta(t, 19.9, conn.Data[0].Price.Amount, 0.001)
	assert.Empty(t, conn.Data[1].Thumbnail)
	assert.Equal(t, "cur-2", conn.EndCursor)
	assert.True(t, conn.HasNext)
}
