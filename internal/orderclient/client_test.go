package orderclient

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/cart"
	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/domain/order"
)

type fakeSender struct {
	reqs []order.Request
	keys []string
	ack  *order.Ack
	err  error
}

func (f *fakeSender) SubmitOrder(_ context.Context, req order.Request, key string) (*order.Ack, error) {
	f.reqs = append(f.reqs, req)
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.ack, nil
}

func filledStore(t *testing.T) (*cart.Store, *cart.MemoryStorage) {
	t.Helper()
	storage := cart.NewMemoryStorage()
	ctx := context.Background()
	s := cart.NewStore(ctx, storage)
	require.NoError(t, s.AddItem(ctx, cart.Product{ID: "A", Name: "Tote", Price: decimal.NewFromInt(100)}, 2))
	require.NoError(t, s.AddItem(ctx, cart.Product{ID: "B", Name: "Pouch", Price: decimal.NewFromInt(50)}, 1))
	return s, storage
}

func reviewSession() *checkout.Session {
	return &checkout.Session{
		ID:             "s-1",
		IdempotencyKey: "k-1",
		Step:           checkout.StepReview,
		Shipping: &checkout.ShippingInfo{
			Name: "Mona", Email: "mona@example.com", Phone: "0100", City: "Cairo", Address: "15 Tahrir",
		},
		Payment: &checkout.Payment{Method: order.PaymentCard, Card: &checkout.CardDetails{Number: "4242"}},
	}
}

func TestBuildRequest(t *testing.T) {
	store, _ := filledStore(t)

	req, err := BuildRequest(store.Items(), store.Total(), reviewSession())
	require.NoError(t, err)

	require.Len(t, req.Items, 2)
	assert.Equal(t, order.LineItem{ProductID: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(100)}, req.Items[0])
	assert.True(t, decimal.NewFromInt(250).Equal(req.TotalAmount))
	assert.True(t, req.ComputedTotal().Equal(req.TotalAmount))
	assert.Equal(t, "Cairo", req.Customer.City)
	assert.Equal(t, order.PaymentCard, req.PaymentMethod)
}

func TestBuildRequest_Preconditions(t *testing.T) {
	_, err := BuildRequest(nil, decimal.Zero, reviewSession())
	require.ErrorIs(t, err, ErrEmptyCart)

	store, _ := filledStore(t)
	s := reviewSession()
	s.Payment = nil
	_, err = BuildRequest(store.Items(), store.Total(), s)
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestSubmit_SuccessClearsCart(t *testing.T) {
	store, storage := filledStore(t)
	sender := &fakeSender{ack: &order.Ack{Success: true, OrderID: "o-1", Message: order.MessagePlaced}}
	c := New(store, sender, zap.NewNop())

	ack, err := c.Submit(context.Background(), reviewSession())
	require.NoError(t, err)
	assert.Equal(t, "o-1", ack.OrderID)
	assert.Equal(t, []string{"k-1"}, sender.keys)

	assert.True(t, store.IsEmpty())
	data, err := storage.Load(context.Background(), cart.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSubmit_FailureKeepsCart(t *testing.T) {
	store, _ := filledStore(t)
	sender := &fakeSender{err: errors.New("connection reset")}
	c := New(store, sender, zap.NewNop())

	_, err := c.Submit(context.Background(), reviewSession())
	require.Error(t, err)
	assert.Equal(t, 3, store.ItemCount())

	sender.err = nil
	sender.ack = &order.Ack{Success: false, Message: "out of stock"}
	_, err = c.Submit(context.Background(), reviewSession())
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "out of stock", rej.Message)
	assert.Equal(t, 3, store.ItemCount())

	assert.Equal(t, []string{"k-1", "k-1"}, sender.keys)
}

func TestSubmit_EmptyCartNeverSends(t *testing.T) {
	store := cart.NewStore(context.Background(), cart.NewMemoryStorage())
	sender := &fakeSender{}
	c := New(store, sender, zap.NewNop())

	_, err := c.Submit(context.Background(), reviewSession())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, sender.reqs)
}

func TestSubmit_WithMachine(t *testing.T) {
	store, _ := filledStore(t)
	sender := &fakeSender{ack: &order.Ack{Success: true, OrderID: "o-9"}}
	m := checkout.NewMachine(store, New(store, sender, zap.NewNop()))

	_, err := m.Start()
	require.NoError(t, err)
	_, err = m.SubmitShipping(*reviewSession().Shipping)
	require.NoError(t, err)
	_, err = m.SelectPayment(checkout.Payment{Method: order.PaymentCashVoucher})
	require.NoError(t, err)

	s, err := m.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, checkout.StepSubmitted, s.Step)
	assert.True(t, store.IsEmpty())
	require.Len(t, sender.reqs, 1)
	assert.Equal(t, order.PaymentCashVoucher, sender.reqs[0].PaymentMethod)
}
