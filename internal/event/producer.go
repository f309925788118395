package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topics for cart events.
const (
	TopicCartUpdated      = "storefront.cart.updated"
	TopicCartCleared      = "storefront.cart.cleared"
	TopicPromoApplied     = "storefront.cart.promo_applied"
	TopicCheckoutStarted  = "storefront.cart.checkout_started"
	SourceCartService     = "cart-service"
	eventTypeCartUpdated  = "cart.updated"
	eventTypeCartCleared  = "cart.cleared"
	eventTypePromoApplied = "cart.promo_applied"
	eventTypeCheckout     = "cart.checkout_started"
)

// Publisher writes an envelope to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// NopPublisher drops every event. Used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// LineData is one cart line inside an event payload.
type LineData struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Stock     string `json:"stock_status"`
}

// CartSnapshot is the payload of cart.updated and cart.checkout_started.
type CartSnapshot struct {
	CartID     string     `json:"cart_id"`
	UserID     string     `json:"user_id"`
	Version    int        `json:"version"`
	Items      []LineData `json:"items"`
	SavedCount int        `json:"saved_count"`
	ItemCount  int        `json:"item_count"`
	Subtotal   string     `json:"subtotal"`
	Discount   string     `json:"discount"`
	Total      string     `json:"total"`
	Currency   string     `json:"currency"`
	PromoCode  string     `json:"promo_code,omitempty"`
}

// CartClearedData is the payload of cart.cleared.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// PromoAppliedData is the payload of cart.promo_applied.
type PromoAppliedData struct {
	CartID   string `json:"cart_id"`
	UserID   string `json:"user_id"`
	Code     string `json:"code"`
	Percent  string `json:"percent"`
	Discount string `json:"discount"`
	Currency string `json:"currency"`
}

// Producer publishes cart events.
type Producer struct {
	pub    Publisher
	logger *slog.Logger
}

// NewProducer creates a cart event producer over pub.
func NewProducer(pub Publisher, logger *slog.Logger) *Producer {
	return &Producer{pub: pub, logger: logger}
}

// PublishCartUpdated emits a cart.updated event carrying the cart snapshot and totals.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart, totals domain.OrderTotals) error {
	return p.publish(ctx, TopicCartUpdated, eventTypeCartUpdated, cart.UserID, snapshot(cart, totals))
}

// PublishCartCleared emits a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicCartCleared, eventTypeCartCleared, userID, CartClearedData{UserID: userID})
}

// PublishPromoApplied emits a cart.promo_applied event. The cart must have a promo.
func (p *Producer) PublishPromoApplied(ctx context.Context, cart *domain.Cart, totals domain.OrderTotals) error {
	if cart.Promo == nil {
		return fmt.Errorf("publish %s: cart %s has no promo", eventTypePromoApplied, cart.ID)
	}
	data := PromoAppliedData{
		CartID:   cart.ID,
		UserID:   cart.UserID,
		Code:     cart.Promo.Code,
		Percent:  cart.Promo.Percent.String(),
		Discount: totals.Discount.StringFixed(2),
		Currency: cart.Currency,
	}
	return p.publish(ctx, TopicPromoApplied, eventTypePromoApplied, cart.UserID, data)
}

// PublishCheckoutStarted emits a cart.checkout_started event.
func (p *Producer) PublishCheckoutStarted(ctx context.Context, cart *domain.Cart, totals domain.OrderTotals) error {
	return p.publish(ctx, TopicCheckoutStarted, eventTypeCheckout, cart.UserID, snapshot(cart, totals))
}

func (p *Producer) publish(ctx context.Context, topic, eventType, key string, payload any) error {
	evt, err := pkgkafka.NewEvent(eventType, key, SourceCartService, payload)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.pub.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("user_id", key),
		slog.String("event_id", evt.ID),
	)
	return nil
}

func snapshot(cart *domain.Cart, totals domain.OrderTotals) CartSnapshot {
	lines := make([]LineData, len(cart.Items))
	for i, it := range cart.Items {
		lines[i] = LineData{
			ItemID:    it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			Stock:     it.Stock.String(),
		}
	}

	s := CartSnapshot{
		CartID:     cart.ID,
		UserID:     cart.UserID,
		Version:    cart.Version,
		Items:      lines,
		SavedCount: len(cart.Saved),
		ItemCount:  totals.ItemCount,
		Subtotal:   totals.Subtotal.StringFixed(2),
		Discount:   totals.Discount.StringFixed(2),
		Total:      totals.Total.StringFixed(2),
		Currency:   cart.Currency,
	}
	if cart.Promo != nil {
		s.PromoCode = cart.Promo.Code
	}
	return s
}
