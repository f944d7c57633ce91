package pagination

import (
	"net/http"
	"strconv"
)

// Params holds cursor pagination parameters extracted from query strings.
// The commerce API exposes relay-style cursor pagination, so the storefront
// forwards a page size plus an opaque "after" cursor rather than page numbers.
type Params struct {
	First int    `json:"first"`
	After string `json:"after,omitempty"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{First: 12}
}

// FromRequest extracts pagination parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if first := r.URL.Query().Get("first"); first != "" {
		if v, err := strconv.Atoi(first); err == nil && v > 0 && v <= 100 {
			p.First = v
		}
	}

	p.After = r.URL.Query().Get("after")
	return p
}

// Connection wraps a cursor-paginated response.
type Connection[T any] struct {
	Data      []T    `json:"data"`
	EndCursor string `json:"end_cursor,omitempty"`
	HasNext   bool   `json:"has_next"`
}

// NewConnection creates a cursor-paginated result.
func NewConnection[T any](data []T, endCursor string, hasNext bool) Connection[T] {
	if data == nil {
		data = []T{}
	}
	return Connection[T]{
		Data:      data,
		EndCursor: endCursor,
		HasNext:   hasNext,
	}
}
