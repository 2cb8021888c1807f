package events

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestPublisher() (*KafkaPublisher, *fakeWriter) {
	w := &fakeWriter{}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &KafkaPublisher{writer: w, now: func() time.Time { return now }}, w
}

func fields(t *testing.T, data []byte) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		out[key] = raw.String()
		return nil
	}))
	return out
}

func TestKafkaPublisher_OrderPlaced(t *testing.T) {
	p, w := newTestPublisher()

	o := &order.Order{
		ID:            "ord-1",
		Items:         []order.LineItem{{ProductID: "tote-bag", Quantity: 2, UnitPrice: decimal.NewFromInt(350)}},
		Customer:      order.Customer{Email: "mona@example.com"},
		TotalAmount:   decimal.RequireFromString("700.50"),
		PaymentMethod: order.PaymentCard,
		CreatedAt:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.OrderPlaced(context.Background(), o))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "ord-1", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte(TypeOrderPlaced)}}, msg.Headers)

	f := fields(t, msg.Value)
	assert.Equal(t, `"order.placed"`, f["type"])
	assert.Equal(t, `700.5`, f["total_amount"])
	assert.Equal(t, `"stripe"`, f["payment_method"])
	assert.Equal(t, `[{"product_id":"tote-bag","quantity":2}]`, f["items"])
	assert.Equal(t, `"2024-03-01T09:00:00Z"`, f["created_at"])
}

func TestKafkaPublisher_DonationReceived(t *testing.T) {
	p, w := newTestPublisher()

	require.NoError(t, p.DonationReceived(context.Background(), &inquiry.Donation{
		ID: "don-1", Amount: decimal.NewFromInt(250), Currency: "EGP", Type: inquiry.DonationMonthly,
	}))
	f := fields(t, w.msgs[0].Value)
	assert.Equal(t, `"donation.received"`, f["type"])
	assert.Equal(t, `250`, f["amount"])
	assert.Equal(t, `"monthly"`, f["donation_type"])
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p, w := newTestPublisher()
	w.err = errors.New("broker unavailable")

	err := p.DonationReceived(context.Background(), &inquiry.Donation{ID: "don-1", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, w.err)
}
