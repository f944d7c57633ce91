package commerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
)

// wire types for checkout payloads

type gqlCheckout struct {
	ID      string `json:"id"`
	Channel *struct {
		Slug string `json:"slug"`
	} `json:"channel"`
	User *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	TotalQuantity int `json:"totalQuantity"`
	Lines         []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
		Variant  struct {
			ID string `json:"id"`
		} `json:"variant"`
	} `json:"lines"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// MutationError carries the payload-level errors a commerce mutation reports
// alongside (not instead of) its data object.
type MutationError struct {
	Operation string
	Errors    []FieldError
}

func (e *MutationError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, me := range e.Errors {
		messages[i] = me.Message
	}
	return fmt.Sprintf("commerce API %s: %s", e.Operation, strings.Join(messages, ", "))
}

func (c *gqlCheckout) toDomain() *domain.Checkout {
	checkout := &domain.Checkout{
		ID:            c.ID,
		TotalQuantity: c.TotalQuantity,
		Lines:         make([]domain.Line, len(c.Lines)),
	}
	if c.Channel != nil {
		checkout.Channel = c.Channel.Slug
	}
	if c.User != nil && c.User.ID != "" {
		checkout.User = &domain.User{ID: c.User.ID, Email: c.User.Email}
	}
	for i, line := range c.Lines {
		checkout.Lines[i] = domain.Line{
			ID:        line.ID,
			VariantID: line.Variant.ID,
			Quantity:  line.Quantity,
		}
	}
	return checkout
}

// CheckoutFind looks up a checkout by its token. A null checkout in the
// response is an expected absence (the token is stale or foreign), returned
// as a not-found error distinguishable from transport failures.
func (c *Client) CheckoutFind(ctx context.Context, id string) (*domain.Checkout, error) {
	var out struct {
		Checkout *gqlCheckout `json:"checkout"`
	}
	if err := c.execute(ctx, "checkoutFind", queryCheckoutFind, map[string]any{"id": id}, "", &out); err != nil {
		return nil, err
	}
	if out.Checkout == nil {
		return nil, apperrors.NotFound("checkout", id)
	}
	return out.Checkout.toDomain(), nil
}

// CheckoutCreate creates an empty checkout for the given sales channel.
func (c *Client) CheckoutCreate(ctx context.Context, channel string) (*domain.Checkout, error) {
	var out struct {
		CheckoutCreate *struct {
			Checkout *gqlCheckout `json:"checkout"`
			Errors   []FieldError `json:"errors"`
		} `json:"checkoutCreate"`
	}
	if err := c.execute(ctx, "checkoutCreate", mutationCheckoutCreate, map[string]any{"channel": channel}, "", &out); err != nil {
		return nil, err
	}
	if out.CheckoutCreate == nil {
		return nil, fmt.Errorf("checkoutCreate: empty payload")
	}
	if len(out.CheckoutCreate.Errors) > 0 {
		return nil, &MutationError{Operation: "checkoutCreate", Errors: out.CheckoutCreate.Errors}
	}
	if out.CheckoutCreate.Checkout == nil {
		return nil, fmt.Errorf("checkoutCreate: no checkout in payload")
	}
	return out.CheckoutCreate.Checkout.toDomain(), nil
}

// CheckoutLinesAdd appends a single-quantity line for the variant.
func (c *Client) CheckoutLinesAdd(ctx context.Context, id, variantID string) (*domain.Checkout, error) {
	var out struct {
		CheckoutLinesAdd *struct {
			Checkout *gqlCheckout `json:"checkout"`
			Errors   []FieldError `json:"errors"`
		} `json:"checkoutLinesAdd"`
	}
	vars := map[string]any{"id": id, "variantId": variantID}
	if err := c.execute(ctx, "checkoutLinesAdd", mutationCheckoutLinesAdd, vars, "", &out); err != nil {
		return nil, err
	}
	if out.CheckoutLinesAdd == nil {
		return nil, fmt.Errorf("checkoutLinesAdd: empty payload")
	}
	if len(out.CheckoutLinesAdd.Errors) > 0 {
		return nil, &MutationError{Operation: "checkoutLinesAdd", Errors: out.CheckoutLinesAdd.Errors}
	}
	if out.CheckoutLinesAdd.Checkout == nil {
		return nil, fmt.Errorf("checkoutLinesAdd: no checkout in payload")
	}
	return out.CheckoutLinesAdd.Checkout.toDomain(), nil
}

// CheckoutLinesDelete removes the given lines from the checkout.
func (c *Client) CheckoutLinesDelete(ctx context.Context, id string, lineIDs []string) (*domain.Checkout, error) {
	var out struct {
		CheckoutLinesDelete *struct {
			Checkout *gqlCheckout `json:"checkout"`
			Errors   []FieldError `json:"errors"`
		} `json:"checkoutLinesDelete"`
	}
	vars := map[string]any{"id": id, "lineIds": lineIDs}
	if err := c.execute(ctx, "checkoutLinesDelete", mutationCheckoutLinesDelete, vars, "", &out); err != nil {
		return nil, err
	}
	if out.CheckoutLinesDelete == nil {
		return nil, fmt.Errorf("checkoutLinesDelete: empty payload")
	}
	if len(out.CheckoutLinesDelete.Errors) > 0 {
		return nil, &MutationError{Operation: "checkoutLinesDelete", Errors: out.CheckoutLinesDelete.Errors}
	}
	if out.CheckoutLinesDelete.Checkout == nil {
		return nil, fmt.Errorf("checkoutLinesDelete: no checkout in payload")
	}
	return out.CheckoutLinesDelete.Checkout.toDomain(), nil
}

// CheckoutCustomerAttach links the checkout to the customer resolved from the
// bearer token. The commerce API reports an already-linked checkout through a
// payload error; callers decide whether that counts as success.
func (c *Client) CheckoutCustomerAttach(ctx context.Context, id, bearer string) error {
	var out struct {
		CheckoutCustomerAttach *struct {
			Checkout *gqlCheckout `json:"checkout"`
			Errors   []FieldError `json:"errors"`
		} `json:"checkoutCustomerAttach"`
	}
	if err := c.execute(ctx, "checkoutCustomerAttach", mutationCheckoutCustomerAttach, map[string]any{"id": id}, bearer, &out); err != nil {
		return err
	}
	if out.CheckoutCustomerAttach == nil {
		return fmt.Errorf("checkoutCustomerAttach: empty payload")
	}
	if len(out.CheckoutCustomerAttach.Errors) > 0 {
		return &MutationError{Operation: "checkoutCustomerAttach", Errors: out.CheckoutCustomerAttach.Errors}
	}
	return nil
}
