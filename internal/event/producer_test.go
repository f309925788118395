package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, e *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic: topic, event: e})
	return nil
}

func newTestProducer() (*Producer, *fakePublisher) {
	pub := &fakePublisher{}
	return NewProducer(pub, slog.New(slog.NewTextHandler(io.Discard, nil))), pub
}

func sampleCart() *domain.Cart {
	c := domain.NewCart("cart-1", "shopper-1", "USD", time.Now().UTC(), time.Hour)
	c.Items = []domain.LineItem{
		{ID: "l1", ProductID: "p1", Name: "Wireless Headphones", UnitPrice: decimal.RequireFromString("99.99"), Quantity: 1, Stock: domain.InStock},
		{ID: "l2", ProductID: "p2", Name: "Smart Watch", UnitPrice: decimal.RequireFromString("249.99"), Quantity: 2, Stock: domain.InStock},
	}
	c.Saved = []domain.SavedItem{{ID: "s1", ProductID: "p9", Name: "USB-C Hub", Quantity: 1, Stock: domain.OutOfStock}}
	c.Version = 3
	return c
}

func TestPublishCartUpdated(t *testing.T) {
	p, pub := newTestProducer()
	cart := sampleCart()
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, p.PublishCartUpdated(ctx, cart, cart.Totals(domain.DefaultPricing())))
	require.Len(t, pub.sent, 1)

	sent := pub.sent[0]
	assert.Equal(t, TopicCartUpdated, sent.topic)
	assert.Equal(t, "cart.updated", sent.event.Type)
	assert.Equal(t, "shopper-1", sent.event.Key)
	assert.Equal(t, SourceCartService, sent.event.Source)
	assert.Equal(t, "corr-1", sent.event.CorrelationID)

	var snap CartSnapshot
	require.NoError(t, sent.event.DecodePayload(&snap))
	assert.Equal(t, 3, snap.Version)
	assert.Equal(t, 3, snap.ItemCount)
	assert.Equal(t, 1, snap.SavedCount)
	assert.Equal(t, "599.97", snap.Subtotal)
	assert.Equal(t, "249.99", snap.Items[1].UnitPrice)
	assert.Empty(t, snap.PromoCode)
}

func TestPublishPromoApplied(t *testing.T) {
	p, pub := newTestProducer()
	cart := sampleCart()
	require.True(t, cart.ApplyPromo("SAVE10", domain.DefaultPromoTable(), time.Now()))

	require.NoError(t, p.PublishPromoApplied(context.Background(), cart, cart.Totals(domain.DefaultPricing())))

	var data PromoAppliedData
	require.NoError(t, pub.sent[0].event.DecodePayload(&data))
	assert.Equal(t, TopicPromoApplied, pub.sent[0].topic)
	assert.Equal(t, "SAVE10", data.Code)
	assert.Equal(t, "10", data.Percent)
	assert.Equal(t, "60.00", data.Discount)
}

func TestPublishPromoApplied_NoPromo(t *testing.T) {
	p, pub := newTestProducer()
	assert.Error(t, p.PublishPromoApplied(context.Background(), sampleCart(), domain.OrderTotals{}))
	assert.Empty(t, pub.sent)
}

func TestPublishCheckoutStarted(t *testing.T) {
	p, pub := newTestProducer()
	cart := sampleCart()

	require.NoError(t, p.PublishCheckoutStarted(context.Background(), cart, cart.Totals(domain.DefaultPricing())))
	assert.Equal(t, TopicCheckoutStarted, pub.sent[0].topic)
	assert.Equal(t, "cart.checkout_started", pub.sent[0].event.Type)
	assert.Empty(t, pub.sent[0].event.CorrelationID)
}

func TestPublishCartCleared(t *testing.T) {
	p, pub := newTestProducer()
	require.NoError(t, p.PublishCartCleared(context.Background(), "shopper-2"))

	var data CartClearedData
	require.NoError(t, pub.sent[0].event.DecodePayload(&data))
	assert.Equal(t, TopicCartCleared, pub.sent[0].topic)
	assert.Equal(t, "shopper-2", data.UserID)
}

func TestPublish_WrapsPublisherError(t *testing.T) {
	p, pub := newTestProducer()
	pub.err = errors.New("broker down")

	err := p.PublishCartCleared(context.Background(), "shopper-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish cart.cleared event")
	assert.ErrorIs(t, err, pub.err)
}

func TestNopPublisher(t *testing.T) {
	p := NewProducer(NopPublisher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, p.PublishCartCleared(context.Background(), "shopper-4"))
}
