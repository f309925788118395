package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerValue(msg kafka.Message, key string) string {
	return NewHeaderCarrier(&msg.Headers).Get(key)
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("cart.updated", "shopper-1", "cart-service", map[string]int{"item_count": 3})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "shopper-1", evt.Key)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.JSONEq(t, `{"item_count":3}`, string(evt.Payload))

	evt.WithCorrelationID("corr-1").WithAttribute("currency", "USD")
	raw, err := evt.Marshal()
	require.NoError(t, err)

	decoded, err := DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "USD", decoded.Attributes["currency"])

	var payload struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, decoded.DecodePayload(&payload))
	assert.Equal(t, 3, payload.ItemCount)
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("cart.updated", "k", "s", make(chan int))
	assert.Error(t, err)
}

func TestProducer_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, discardLogger())

	evt, err := NewEvent("cart.cleared", "shopper-7", "cart-service", struct{}{})
	require.NoError(t, err)
	evt.WithCorrelationID("corr-7")

	before := testutil.ToFloat64(producerPublished.WithLabelValues("test.published"))
	require.NoError(t, p.Publish(context.Background(), "test.published", evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "test.published", msg.Topic)
	assert.Equal(t, "shopper-7", string(msg.Key))
	assert.Equal(t, "cart.cleared", headerValue(msg, "event_type"))
	assert.Equal(t, "cart-service", headerValue(msg, "source"))
	assert.Equal(t, "corr-7", headerValue(msg, "correlation_id"))
	assert.Equal(t, before+1, testutil.ToFloat64(producerPublished.WithLabelValues("test.published")))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishFailure(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, nil, discardLogger())

	evt, err := NewEvent("cart.updated", "shopper-8", "cart-service", struct{}{})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "test.failed", evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.Equal(t, float64(1), testutil.ToFloat64(producerErrors.WithLabelValues("test.failed")))
}

func TestProducer_InjectsTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTextMapPropagator(prev)
		_ = tp.Shutdown(context.Background())
	})

	ctx, span := tp.Tracer("test").Start(context.Background(), "apply-promo")
	defer span.End()

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, discardLogger())
	evt, err := NewEvent("cart.promo_applied", "shopper-9", "cart-service", struct{}{})
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, "test.traced", evt))

	traceparent := headerValue(w.msgs[0], "traceparent")
	require.NotEmpty(t, traceparent)
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("v1")}}
	c := NewHeaderCarrier(&headers)

	assert.Equal(t, "v1", c.Get("existing"))
	assert.Empty(t, c.Get("missing"))

	c.Set("existing", "v2")
	c.Set("added", "v3")
	assert.Equal(t, "v2", c.Get("existing"))
	assert.ElementsMatch(t, []string{"existing", "added"}, c.Keys())
	assert.Len(t, headers, 2)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	assert.EqualError(t, err, "kafka: no brokers configured")
}
