package checkout

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xenking/handmade-storefront/internal/domain/order"
)

// Step is a state of the checkout flow.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
	StepSubmitted
	StepCancelled
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepSubmitted:
		return "submitted"
	case StepCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Number is the 1-based position shown in the step indicator, 0 for final states.
func (s Step) Number() int {
	if s >= StepShipping && s <= StepReview {
		return int(s)
	}
	return 0
}

// ShippingInfo is the validated data of the shipping step.
type ShippingInfo struct {
	Name    string
	Email   string
	Phone   string
	City    string
	Address string
}

// Field names reported by ValidationError.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldCity          = "city"
	FieldAddress       = "address"
	FieldPaymentMethod = "payment_method"
)

// ValidationError rejects a step transition because of one field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Reasons carried by ValidationError.
const (
	ReasonRequired     = "required"
	ReasonInvalidEmail = "invalid email address"
	ReasonUnknown      = "unknown payment method"
)

// Normalize trims every field.
func (s ShippingInfo) Normalize() ShippingInfo {
	return ShippingInfo{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Phone:   strings.TrimSpace(s.Phone),
		City:    strings.TrimSpace(s.City),
		Address: strings.TrimSpace(s.Address),
	}
}

// Validate reports the first empty or malformed field in form order.
func (s ShippingInfo) Validate() error {
	s = s.Normalize()
	for _, f := range []struct{ name, value string }{
		{FieldName, s.Name},
		{FieldEmail, s.Email},
		{FieldPhone, s.Phone},
		{FieldCity, s.City},
		{FieldAddress, s.Address},
	} {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: ReasonRequired}
		}
		if f.name == FieldEmail {
			if addr, err := mail.ParseAddress(f.value); err != nil || addr.Address != f.value {
				return &ValidationError{Field: FieldEmail, Reason: ReasonInvalidEmail}
			}
		}
	}
	return nil
}

// CardDetails are collected for display only and never sent to the backend.
type CardDetails struct {
	Number string
	Expiry string
	CVC    string
	Holder string
}

// Masked returns the card number with all but the last four digits hidden.
func (c CardDetails) Masked() string {
	n := strings.ReplaceAll(c.Number, " ", "")
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("•", len(n)-4) + n[len(n)-4:]
}

// Payment is the validated data of the payment step.
type Payment struct {
	Method order.PaymentMethod
	Card   *CardDetails
}

// Session is the transient state of one checkout attempt.
type Session struct {
	ID string
	// IdempotencyKey is sent with every submission of this session.
	IdempotencyKey string
	Step           Step
	Shipping       *ShippingInfo
	Payment        *Payment
	Submitting     bool
	// LastError is the most recent submission failure, cleared on retry.
	LastError error
	Ack       *order.Ack
}

func (s *Session) clone() *Session {
	c := *s
	if s.Shipping != nil {
		sh := *s.Shipping
		c.Shipping = &sh
	}
	if s.Payment != nil {
		p := *s.Payment
		if p.Card != nil {
			card := *p.Card
			p.Card = &card
		}
		c.Payment = &p
	}
	return &c
}
