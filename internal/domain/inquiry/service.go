package inquiry

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service validates and stores form submissions and donations.
type Service struct {
	submissions Repository
	donations   DonationRepository
	events      Events
	now         func() time.Time
}

// NewService creates a Service. events may be nil.
func NewService(submissions Repository, donations DonationRepository, events Events) *Service {
	return &Service{
		submissions: submissions,
		donations:   donations,
		events:      events,
		now:         time.Now,
	}
}

// Submit validates and stores a form of the given kind.
func (s *Service) Submit(ctx context.Context, kind Kind, f Form) (*Submission, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := Validate(kind, f); err != nil {
		return nil, err
	}
	sub := &Submission{
		ID:        uuid.New().String(),
		Kind:      kind,
		Form:      f,
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.submissions.SaveSubmission(ctx, sub); err != nil {
		return nil, errors.Wrapf(err, "save %s submission", kind)
	}
	return sub, nil
}

// Donate validates and stores a donation.
func (s *Service) Donate(ctx context.Context, d Donation) (*Donation, error) {
	if strings.TrimSpace(d.Email) == "" {
		return nil, &MissingFieldError{Field: "email"}
	}
	if !d.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if d.Type == "" {
		d.Type = DonationOneTime
	}
	if d.Type != DonationOneTime && d.Type != DonationMonthly {
		return nil, ErrInvalidDonationType
	}
	if d.Currency == "" {
		d.Currency = "EGP"
	}
	d.PaymentMethod = "stripe"
	d.ID = uuid.New().String()
	d.CreatedAt = s.now().UTC()

	if err := s.donations.CreateDonation(ctx, &d); err != nil {
		return nil, errors.Wrap(err, "create donation")
	}
	if s.events != nil {
		if err := s.events.DonationReceived(ctx, &d); err != nil {
			zctx.From(ctx).Warn("Publish donation received", zap.String("donation_id", d.ID), zap.Error(err))
		}
	}
	return &d, nil
}

// Donations returns all donations, newest first.
func (s *Service) Donations(ctx context.Context) ([]Donation, error) {
	out, err := s.donations.ListDonations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list donations")
	}
	return out, nil
}
