package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/httpclient"
)

// Client executes GraphQL operations against the headless commerce API.
// The wire format is a plain POST {query, variables} request; responses carry
// either a data object or a top-level errors list. Transport concerns
// (retries, pooling, circuit breaking) live in pkg/httpclient.
type Client struct {
	endpoint string
	http     *httpclient.CircuitBreakerClient
	logger   *slog.Logger
}

// New creates a commerce API client for the given GraphQL endpoint.
func New(endpoint string, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     http,
		logger:   logger,
	}
}

// graphqlRequest is the outbound request body.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the inbound response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// OperationError is a top-level GraphQL error returned by the commerce API
// (as opposed to a transport failure or a mutation payload error).
type OperationError struct {
	Operation string
	Messages  []string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("commerce API %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// execute runs a single GraphQL operation and unmarshals the data object into
// out. A non-empty bearer token is forwarded as an Authorization header so the
// commerce API resolves the call in the customer's auth context.
func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, bearer string, out any) error {
	start := time.Now()
	err := c.do(ctx, operation, query, variables, bearer, out)
	observeOperation(operation, time.Since(start), err)
	return err
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, bearer string, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return apperrors.Upstream(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 800))
		c.logger.ErrorContext(ctx, "commerce API HTTP error",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode),
			slog.String("body_preview", string(preview)),
		)
		return apperrors.Upstream(operation, fmt.Errorf("status %d", resp.StatusCode))
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		c.logger.ErrorContext(ctx, "commerce API GraphQL errors",
			slog.String("operation", operation),
			slog.Any("errors", messages),
		)
		return &OperationError{Operation: operation, Messages: messages}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("unmarshal %s data: %w", operation, err)
		}
	}

	return nil
}

// Ping issues a minimal query to verify the commerce API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Shop *struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	return c.execute(ctx, "shop", queryShop, nil, "", &out)
}
