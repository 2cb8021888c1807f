package order

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/domain/product"
)

// Bloom filter sizing for idempotency keys.
const (
	expectedKeys      = 100_000
	falsePositiveRate = 0.001
)

// Service encapsulates order placement business logic.
type Service struct {
	products product.Repository
	orders   Repository
	events   Events
	now      func() time.Time

	tracer       trace.Tracer
	placed       metric.Int64Counter
	deduplicated metric.Int64Counter

	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// Option configures a Service.
type Option func(*Service)

// WithEvents sets the notifier for accepted orders.
func WithEvents(e Events) Option {
	return func(s *Service) { s.events = e }
}

// WithTracerProvider sets the tracer provider used for PlaceOrder spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer("handmade/order") }
}

// WithMeterProvider sets the meter provider for order counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		meter := mp.Meter("handmade/order")
		s.placed = counter(meter, "orders.placed",
			"Orders accepted and persisted")
		s.deduplicated = counter(meter, "orders.deduplicated",
			"Submissions answered from a previous order with the same idempotency key")
	}
}

// counter creates a counter, falling back to a no-op one when the meter
// refuses the instrument.
func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil || c == nil {
		return metricnoop.Int64Counter{}
	}
	return c
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository, opts ...Option) *Service {
	s := &Service{
		products: products,
		orders:   orders,
		now:      time.Now,
		seen:     bloom.NewWithEstimates(expectedKeys, falsePositiveRate),
	}
	WithTracerProvider(tracenoop.NewTracerProvider())(s)
	WithMeterProvider(metricnoop.NewMeterProvider())(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

// Warm loads the idempotency keys of persisted orders into the pre-filter.
func (s *Service) Warm(ctx context.Context) error {
	keys, err := s.orders.ListIdempotencyKeys(ctx)
	if err != nil {
		return errors.Wrap(err, "list idempotency keys")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.seen.AddString(k)
	}
	zctx.From(ctx).Info("Idempotency filter warmed", zap.Int("keys", len(keys)))
	return nil
}

// Validate checks a request without touching storage.
func Validate(req Request) error {
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return &InvalidItemError{ProductID: item.ProductID, Reason: "quantity must be greater than 0"}
		}
		if !item.UnitPrice.IsPositive() {
			return &InvalidItemError{ProductID: item.ProductID, Reason: "price must be greater than 0"}
		}
	}
	c := req.Customer
	for _, f := range []struct{ name, value string }{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	if !req.PaymentMethod.Valid() {
		return ErrUnknownPaymentMethod
	}
	if computed := req.ComputedTotal(); !computed.Equal(req.TotalAmount) {
		return &TotalMismatchError{Submitted: req.TotalAmount, Computed: computed}
	}
	return nil
}

// PlaceOrder validates the request, verifies the products exist, persists the
// order and returns its acknowledgement. A repeated idempotency key returns
// the acknowledgement of the original order without writing anything.
func (s *Service) PlaceOrder(ctx context.Context, req Request, idempotencyKey string) (*Ack, error) {
	ctx, span := s.tracer.Start(ctx, "order.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.items", len(req.Items))),
	)
	defer span.End()

	if err := Validate(req); err != nil {
		return nil, err
	}

	if idempotencyKey != "" && s.maybeSeen(idempotencyKey) {
		prev, err := s.orders.FindByIdempotencyKey(ctx, idempotencyKey)
		switch {
		case err == nil:
			s.deduplicated.Add(ctx, 1)
			return prev.Ack(), nil
		case !errors.Is(err, ErrNotFound):
			return nil, errors.Wrap(err, "find by idempotency key")
		}
	}

	if err := s.checkProducts(ctx, req.Items); err != nil {
		return nil, err
	}

	o := &Order{
		ID:             uuid.New().String(),
		IdempotencyKey: idempotencyKey,
		Items:          req.Items,
		Customer:       req.Customer,
		TotalAmount:    req.TotalAmount,
		PaymentMethod:  req.PaymentMethod,
		Status:         StatusCompleted,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			// Lost a race with a concurrent submission of the same key.
			prev, findErr := s.orders.FindByIdempotencyKey(ctx, idempotencyKey)
			if findErr != nil {
				return nil, errors.Wrap(findErr, "find by idempotency key")
			}
			s.markSeen(idempotencyKey)
			s.deduplicated.Add(ctx, 1)
			return prev.Ack(), nil
		}
		return nil, errors.Wrap(err, "create order")
	}
	if idempotencyKey != "" {
		s.markSeen(idempotencyKey)
	}
	s.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", string(o.PaymentMethod))))
	span.SetAttributes(attribute.String("order.id", o.ID))

	if s.events != nil {
		if err := s.events.OrderPlaced(ctx, o); err != nil {
			zctx.From(ctx).Warn("Publish order placed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	return o.Ack(), nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (s *Service) checkProducts(ctx context.Context, items []LineItem) error {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "get products")
	}
	found := make(map[string]struct{}, len(fetched))
	for _, p := range fetched {
		found[p.ID] = struct{}{}
	}
	for _, item := range items {
		if _, ok := found[item.ProductID]; !ok {
			return &ProductNotFoundError{ProductID: item.ProductID}
		}
	}
	return nil
}

func (s *Service) maybeSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.TestString(key)
}

func (s *Service) markSeen(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen.AddString(key)
}
