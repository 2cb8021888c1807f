// Package inquiry handles the public forms of the site (contact, textile
// donation, volunteering, artisan applications, newsletter) and donations.
package inquiry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind identifies a public form.
type Kind string

const (
	KindContact         Kind = "contact"
	KindTextileDonation Kind = "textile-donation"
	KindVolunteer       Kind = "volunteer"
	KindJoinArtisan     Kind = "join-artisan"
	KindNewsletter      Kind = "newsletter"
)

// Kinds lists every form kind in the order the site presents them.
var Kinds = []Kind{KindContact, KindTextileDonation, KindVolunteer, KindJoinArtisan, KindNewsletter}

// ErrUnknownKind is returned for form kinds not in Kinds.
var ErrUnknownKind = errors.New("unknown form kind")

// ParseKind validates s as a form kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrap(ErrUnknownKind, s)
}

// SuccessMessage is the acknowledgement text for an accepted submission.
func (k Kind) SuccessMessage() string {
	switch k {
	case KindContact:
		return "Contact form submitted successfully"
	case KindTextileDonation:
		return "Textile donation inquiry submitted successfully"
	case KindVolunteer:
		return "Volunteer application submitted successfully"
	case KindJoinArtisan:
		return "Artisan application submitted successfully"
	case KindNewsletter:
		return "Newsletter subscription successful"
	default:
		return "Submitted successfully"
	}
}

func (k Kind) required() []string {
	switch k {
	case KindContact, KindTextileDonation, KindVolunteer:
		return []string{"name", "email", "message"}
	case KindJoinArtisan:
		return []string{"name", "phone"}
	case KindNewsletter:
		return []string{"email"}
	default:
		return nil
	}
}

// Form carries the fields of any public form. Unused fields stay empty.
type Form struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Skills       string
	Availability string
	Location     string
	Message      string
}

func (f Form) field(name string) string {
	switch name {
	case "name":
		return f.Name
	case "email":
		return f.Email
	case "phone":
		return f.Phone
	case "message":
		return f.Message
	default:
		return ""
	}
}

// Submission is a stored form.
type Submission struct {
	ID        string
	Kind      Kind
	Form      Form
	Status    string
	CreatedAt time.Time
}

// StatusPending is the initial status of every submission.
const StatusPending = "pending"

// MissingFieldError reports a required field left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Validate checks the required fields of kind.
func Validate(kind Kind, f Form) error {
	for _, name := range kind.required() {
		if strings.TrimSpace(f.field(name)) == "" {
			return &MissingFieldError{Field: name}
		}
	}
	return nil
}

// DonationType is one-time or monthly.
type DonationType string

const (
	DonationOneTime DonationType = "one-time"
	DonationMonthly DonationType = "monthly"
)

// Donation is a monetary gift towards the current campaign.
type Donation struct {
	ID            string
	DonorName     string
	Email         string
	Amount        decimal.Decimal
	Currency      string
	Type          DonationType
	PaymentMethod string
	CreatedAt     time.Time
}

// DonationMessage is the acknowledgement text for an accepted donation.
const DonationMessage = "Donation processed successfully"

// Donation validation errors.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidDonationType = errors.New("type must be one of one-time, monthly")
)

// Repository stores form submissions.
type Repository interface {
	SaveSubmission(ctx context.Context, s *Submission) error
	ListSubmissions(ctx context.Context, kind Kind) ([]Submission, error)
}

// DonationRepository stores donations.
type DonationRepository interface {
	// CreateDonation stores d and adds its amount to the campaign total.
	CreateDonation(ctx context.Context, d *Donation) error
	// ListDonations returns all donations, newest first.
	ListDonations(ctx context.Context) ([]Donation, error)
}

// Events receives notifications about accepted donations.
type Events interface {
	DonationReceived(ctx context.Context, d *Donation) error
}
