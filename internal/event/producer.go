package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/MSP-Team3/kyeol-storefront/pkg/kafka"
	"github.com/MSP-Team3/kyeol-storefront/pkg/logger"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// Kafka topic constants for checkout lifecycle events.
const (
	TopicCheckoutCreated  = "storefront.checkout.created"
	TopicLineAdded        = "storefront.checkout.line_added"
	TopicLinesDeleted     = "storefront.checkout.lines_deleted"
	TopicCustomerAttached = "storefront.checkout.customer_attached"
)

// Aggregate type constant.
const AggregateTypeCheckout = "checkout"

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CheckoutCreatedData is the payload for a checkout.created event.
type CheckoutCreatedData struct {
	CheckoutID string `json:"checkout_id"`
	Channel    string `json:"channel"`
}

// LineAddedData is the payload for a checkout.line_added event.
type LineAddedData struct {
	CheckoutID    string `json:"checkout_id"`
	VariantID     string `json:"variant_id"`
	TotalQuantity int    `json:"total_quantity"`
}

// LinesDeletedData is the payload for a checkout.lines_deleted event.
type LinesDeletedData struct {
	CheckoutID    string   `json:"checkout_id"`
	LineIDs       []string `json:"line_ids"`
	TotalQuantity int      `json:"total_quantity"`
}

// CustomerAttachedData is the payload for a checkout.customer_attached event.
type CustomerAttachedData struct {
	CheckoutID string `json:"checkout_id"`
	UserID     string `json:"user_id"`
}

// Producer publishes checkout lifecycle events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// CheckoutCreated publishes a checkout.created event.
func (p *Producer) CheckoutCreated(ctx context.Context, checkout *domain.Checkout) error {
	data := CheckoutCreatedData{
		CheckoutID: checkout.ID,
		Channel:    checkout.Channel,
	}
	return p.publish(ctx, TopicCheckoutCreated, checkout.ID, data)
}

// LineAdded publishes a checkout.line_added event.
func (p *Producer) LineAdded(ctx context.Context, checkout *domain.Checkout, variantID string) error {
	data := LineAddedData{
		CheckoutID:    checkout.ID,
		VariantID:     variantID,
		TotalQuantity: checkout.TotalQuantity,
	}
	return p.publish(ctx, TopicLineAdded, checkout.ID, data)
}

// LinesDeleted publishes a checkout.lines_deleted event.
func (p *Producer) LinesDeleted(ctx context.Context, checkout *domain.Checkout, lineIDs []string) error {
	data := LinesDeletedData{
		CheckoutID:    checkout.ID,
		LineIDs:       lineIDs,
		TotalQuantity: checkout.TotalQuantity,
	}
	return p.publish(ctx, TopicLinesDeleted, checkout.ID, data)
}

// CustomerAttached publishes a checkout.customer_attached event.
func (p *Producer) CustomerAttached(ctx context.Context, checkoutID, userID string) error {
	data := CustomerAttachedData{
		CheckoutID: checkoutID,
		UserID:     userID,
	}
	return p.publish(ctx, TopicCustomerAttached, checkoutID, data)
}

func (p *Producer) publish(ctx context.Context, topic, checkoutID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, checkoutID, AggregateTypeCheckout, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published checkout event",
		slog.String("topic", topic),
		slog.String("checkout_id", checkoutID),
	)

	return nil
}
