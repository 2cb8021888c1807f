// Package checkout implements the three-step checkout flow:
// Shipping → Payment → Review → Submitted, with Back and Cancel.
package checkout

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/handmade-storefront/internal/domain/order"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoSession      = errors.New("no checkout in progress")
	ErrWrongStep      = errors.New("action not allowed at this step")
	ErrSubmitInFlight = errors.New("order submission already in progress")
	// ErrSessionClosed is returned by Submit when the session was cancelled or
	// replaced while the request was in flight. The submission result still
	// stands; only the session is gone. A late failure is joined to it.
	ErrSessionClosed = errors.New("checkout closed during submission")
)

// Cart is the read-only view of the cart the machine needs.
type Cart interface {
	IsEmpty() bool
}

// Submitter sends the order built from the session.
type Submitter interface {
	Submit(ctx context.Context, s *Session) (*order.Ack, error)
}

// Machine drives one checkout session at a time.
type Machine struct {
	cart      Cart
	submitter Submitter

	mu      sync.Mutex
	session *Session
}

// NewMachine creates a Machine.
func NewMachine(cart Cart, submitter Submitter) *Machine {
	return &Machine{cart: cart, submitter: submitter}
}

// Start opens a fresh session at the shipping step, replacing any open one.
// An empty cart blocks checkout.
func (m *Machine) Start() (*Session, error) {
	if m.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &Session{
		ID:             uuid.NewString(),
		IdempotencyKey: uuid.NewString(),
		Step:           StepShipping,
	}
	return m.session.clone(), nil
}

// Session returns a copy of the open session.
func (m *Machine) Session() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, false
	}
	return m.session.clone(), true
}

// SubmitShipping validates info and advances to the payment step. On failure
// the session stays at the shipping step.
func (m *Machine) SubmitShipping(info ShippingInfo) (*Session, error) {
	return m.transition(StepShipping, func(s *Session) error {
		if err := info.Validate(); err != nil {
			return err
		}
		normalized := info.Normalize()
		s.Shipping = &normalized
		s.Step = StepPayment
		return nil
	})
}

// SelectPayment stores the payment choice and advances to review. Card
// details are optional and not checked.
func (m *Machine) SelectPayment(p Payment) (*Session, error) {
	return m.transition(StepPayment, func(s *Session) error {
		if !p.Method.Valid() {
			return &ValidationError{Field: FieldPaymentMethod, Reason: ReasonUnknown}
		}
		if p.Method != order.PaymentCard {
			p.Card = nil
		}
		s.Payment = &p
		s.Step = StepReview
		return nil
	})
}

// Back returns to the previous step keeping all entered data.
func (m *Machine) Back() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s == nil {
		return nil, ErrNoSession
	}
	if s.Submitting {
		return nil, ErrSubmitInFlight
	}
	switch s.Step {
	case StepPayment:
		s.Step = StepShipping
	case StepReview:
		s.Step = StepPayment
	default:
		return nil, ErrWrongStep
	}
	return s.clone(), nil
}

// RenewIdempotencyKey gives the open session a fresh idempotency key. Call it
// whenever the cart changes so a retried submission is not answered with the
// order placed for the previous cart. Changing the cart while an order is in
// flight is refused.
func (m *Machine) RenewIdempotencyKey() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s == nil {
		return nil
	}
	if s.Submitting {
		return ErrSubmitInFlight
	}
	s.IdempotencyKey = uuid.NewString()
	return nil
}

// Cancel discards the session. The cart is untouched.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.Step = StepCancelled
	}
	m.session = nil
}

// Submit sends the order. On success the session ends at StepSubmitted and is
// discarded. On failure it stays at the review step with LastError set so the
// caller can retry with the same idempotency key.
func (m *Machine) Submit(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	s := m.session
	switch {
	case s == nil:
		m.mu.Unlock()
		return nil, ErrNoSession
	case s.Submitting:
		m.mu.Unlock()
		return nil, ErrSubmitInFlight
	case s.Step != StepReview:
		m.mu.Unlock()
		return nil, ErrWrongStep
	}
	s.Submitting = true
	s.LastError = nil
	snapshot := s.clone()
	m.mu.Unlock()

	ack, err := m.submitter.Submit(ctx, snapshot)

	m.mu.Lock()
	defer m.mu.Unlock()
	s.Submitting = false
	if m.session != s {
		if err != nil {
			return nil, errors.Join(ErrSessionClosed, err)
		}
		return nil, ErrSessionClosed
	}
	if err != nil {
		s.LastError = err
		return s.clone(), err
	}
	s.Ack = ack
	s.Step = StepSubmitted
	m.session = nil
	return s.clone(), nil
}

func (m *Machine) transition(from Step, fn func(s *Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s == nil {
		return nil, ErrNoSession
	}
	if s.Submitting {
		return nil, ErrSubmitInFlight
	}
	if s.Step != from {
		return nil, ErrWrongStep
	}
	if err := fn(s); err != nil {
		return s.clone(), err
	}
	return s.clone(), nil
}
