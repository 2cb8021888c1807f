// Package orderclient turns the cart and a checkout session into an order
// request, sends it and clears the cart once the backend accepts it.
package orderclient

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/cart"
	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/domain/order"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrIncomplete = errors.New("checkout session is missing shipping or payment data")
)

// RejectedError is returned when the backend answers with success=false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "order rejected: " + e.Message }

// Cart is the part of cart.Store the client uses.
type Cart interface {
	Items() []cart.Item
	Total() decimal.Decimal
	Clear(ctx context.Context)
}

// Sender delivers an order request.
type Sender interface {
	SubmitOrder(ctx context.Context, req order.Request, idempotencyKey string) (*order.Ack, error)
}

// Client submits orders.
type Client struct {
	cart   Cart
	sender Sender
	lg     *zap.Logger
}

var _ checkout.Submitter = (*Client)(nil)

// New creates a Client.
func New(c Cart, sender Sender, lg *zap.Logger) *Client {
	return &Client{cart: c, sender: sender, lg: lg}
}

// BuildRequest snapshots the cart lines and session data into an order request.
// TotalAmount is the cart total at the time of the call.
func BuildRequest(items []cart.Item, total decimal.Decimal, s *checkout.Session) (order.Request, error) {
	if len(items) == 0 {
		return order.Request{}, ErrEmptyCart
	}
	if s == nil || s.Shipping == nil || s.Payment == nil {
		return order.Request{}, ErrIncomplete
	}
	lines := make([]order.LineItem, len(items))
	for i, it := range items {
		lines[i] = order.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	sh := s.Shipping
	return order.Request{
		Items: lines,
		Customer: order.Customer{
			Name:    sh.Name,
			Email:   sh.Email,
			Phone:   sh.Phone,
			Address: sh.Address,
			City:    sh.City,
		},
		TotalAmount:   total,
		PaymentMethod: s.Payment.Method,
	}, nil
}

// Submit sends the order for s. The cart is cleared only when the backend
// acknowledges success; on any failure it is left intact for a manual retry.
func (c *Client) Submit(ctx context.Context, s *checkout.Session) (*order.Ack, error) {
	req, err := BuildRequest(c.cart.Items(), c.cart.Total(), s)
	if err != nil {
		return nil, err
	}

	ack, err := c.sender.SubmitOrder(ctx, req, s.IdempotencyKey)
	if err != nil {
		c.lg.Error("Submit order",
			zap.String("session_id", s.ID),
			zap.String("idempotency_key", s.IdempotencyKey),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "submit order")
	}
	if !ack.Success {
		c.lg.Error("Order rejected", zap.String("session_id", s.ID), zap.String("message", ack.Message))
		return nil, &RejectedError{Message: ack.Message}
	}

	c.cart.Clear(ctx)
	c.lg.Info("Order placed",
		zap.String("order_id", ack.OrderID),
		zap.String("total", req.TotalAmount.String()),
	)
	return ack, nil
}
