// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/jx"
	"github.com/segmentio/kafka-go"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
)

// Event types, also sent in the "type" header.
const (
	TypeOrderPlaced      = "order.placed"
	TypeDonationReceived = "donation.received"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "handmade-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	_ order.Events   = (*KafkaPublisher)(nil)
	_ inquiry.Events = (*KafkaPublisher)(nil)
)

// KafkaPublisher writes one message per event, keyed by the entity ID.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, typ, key string, body func(e *jx.Encoder)) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("type")
	e.Str(typ)
	body(&e)
	e.ObjEnd()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   e.Bytes(),
		Headers: []kafka.Header{{Key: "type", Value: []byte(typ)}},
		Time:    p.now(),
	})
	if err != nil {
		return fmt.Errorf("publishing %s %q: %w", typ, key, err)
	}
	return nil
}

// OrderPlaced publishes an order.placed event.
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, TypeOrderPlaced, o.ID, func(e *jx.Encoder) {
		e.FieldStart("order_id")
		e.Str(o.ID)
		e.FieldStart("total_amount")
		e.Num(jx.Num(o.TotalAmount.String()))
		e.FieldStart("payment_method")
		e.Str(string(o.PaymentMethod))
		e.FieldStart("customer_email")
		e.Str(o.Customer.Email)
		e.FieldStart("items")
		e.ArrStart()
		for _, li := range o.Items {
			e.ObjStart()
			e.FieldStart("product_id")
			e.Str(li.ProductID)
			e.FieldStart("quantity")
			e.Int(li.Quantity)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("created_at")
		e.Str(o.CreatedAt.UTC().Format(time.RFC3339))
	})
}

// DonationReceived publishes a donation.received event.
func (p *KafkaPublisher) DonationReceived(ctx context.Context, d *inquiry.Donation) error {
	return p.publish(ctx, TypeDonationReceived, d.ID, func(e *jx.Encoder) {
		e.FieldStart("donation_id")
		e.Str(d.ID)
		e.FieldStart("amount")
		e.Num(jx.Num(d.Amount.String()))
		e.FieldStart("currency")
		e.Str(d.Currency)
		e.FieldStart("donation_type")
		e.Str(string(d.Type))
		e.FieldStart("created_at")
		e.Str(d.CreatedAt.UTC().Format(time.RFC3339))
	})
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards every event.
type Nop struct{}

var (
	_ order.Events   = Nop{}
	_ inquiry.Events = Nop{}
)

func (Nop) OrderPlaced(context.Context, *order.Order) error           { return nil }
func (Nop) DonationReceived(context.Context, *inquiry.Donation) error { return nil }
func (Nop) Close() error                                              { return nil }
