package domain

// Checkout is the server-owned cart aggregate, scoped to a sales channel and
// identified by an opaque token issued by the commerce API. The storefront
// never stores a checkout itself; it only holds the token in a cookie and a
// short-lived cached view.
type Checkout struct {
	ID            string `json:"id"`
	Channel       string `json:"channel"`
	User          *User  `json:"user,omitempty"`
	Lines         []Line `json:"lines"`
	TotalQuantity int    `json:"total_quantity"`
}

// Line is a single product-variant-and-quantity entry within a checkout.
// The line ID is issued by the commerce API and is the handle for deletion.
type Line struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// User identifies an authenticated customer as reported by the commerce API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Attached reports whether the checkout is already linked to a customer.
// The link is set-once: a checkout with a user must never be re-linked.
func (c *Checkout) Attached() bool {
	return c.User != nil && c.User.ID != ""
}

// FindLine returns the line holding the given variant, or nil.
func (c *Checkout) FindLine(variantID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Product is a catalog entry used by the browsing endpoints. Catalog data is
// owned entirely by the commerce API; this is a read-only projection.
type Product struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Price     Money  `json:"price"`
}

// Money is an amount in a display currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}
