package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how the customer pays. The string values are the
// ones sent over the wire.
type PaymentMethod string

const (
	// PaymentCard is an online card payment.
	PaymentCard PaymentMethod = "stripe"
	// PaymentCashVoucher is a cash voucher paid at a Fawry outlet.
	PaymentCashVoucher PaymentMethod = "fawry"
)

// ErrUnknownPaymentMethod is returned for payment methods other than card or cash voucher.
var ErrUnknownPaymentMethod = errors.New("payment method must be one of stripe, fawry")

// ParsePaymentMethod accepts the wire values and the human aliases "card" and "cash".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stripe", "card":
		return PaymentCard, nil
	case "fawry", "cash", "voucher":
		return PaymentCashVoucher, nil
	default:
		return "", ErrUnknownPaymentMethod
	}
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCashVoucher
}

// Status is the lifecycle state of a persisted order.
type Status string

// StatusCompleted is assigned to every accepted order; payment is mocked.
const StatusCompleted Status = "completed"

// MessagePlaced is the acknowledgement message for an accepted order.
const MessagePlaced = "Order placed successfully"

// LineItem is one product entry of an order.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns UnitPrice × Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Customer holds the contact and shipping details of the buyer.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
}

// Request is the immutable snapshot a client submits to place an order.
type Request struct {
	Items         []LineItem
	Customer      Customer
	TotalAmount   decimal.Decimal
	PaymentMethod PaymentMethod
}

// ComputedTotal returns the sum of all line item subtotals.
func (r Request) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range r.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Ack is the acknowledgement returned for a submitted order or form.
type Ack struct {
	Success bool
	OrderID string
	Message string
}

// Order represents a persisted customer order.
type Order struct {
	ID             string
	IdempotencyKey string
	Items          []LineItem
	Customer       Customer
	TotalAmount    decimal.Decimal
	PaymentMethod  PaymentMethod
	Status         Status
	CreatedAt      time.Time
}

// Ack returns the acknowledgement for o.
func (o *Order) Ack() *Ack {
	return &Ack{Success: true, OrderID: o.ID, Message: MessagePlaced}
}

// Repository errors.
var (
	ErrNotFound     = errors.New("order not found")
	ErrDuplicateKey = errors.New("idempotency key already used")
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and decrements product stock in one
	// transaction. Returns ErrDuplicateKey when the idempotency key exists.
	Create(ctx context.Context, order *Order) error
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	ListIdempotencyKeys(ctx context.Context) ([]string, error)
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)
}

// Events receives notifications about accepted orders.
type Events interface {
	OrderPlaced(ctx context.Context, o *Order) error
}
