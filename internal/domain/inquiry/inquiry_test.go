package inquiry

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	subs      []Submission
	donations []Donation
	err       error
}

func (m *memRepo) SaveSubmission(_ context.Context, s *Submission) error {
	if m.err != nil {
		return m.err
	}
	m.subs = append(m.subs, *s)
	return nil
}

func (m *memRepo) ListSubmissions(_ context.Context, kind Kind) ([]Submission, error) {
	var out []Submission
	for _, s := range m.subs {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) CreateDonation(_ context.Context, d *Donation) error {
	if m.err != nil {
		return m.err
	}
	m.donations = append(m.donations, *d)
	return nil
}

func (m *memRepo) ListDonations(_ context.Context) ([]Donation, error) {
	return m.donations, nil
}

type donationEvents struct{ ids []string }

func (e *donationEvents) DonationReceived(_ context.Context, d *Donation) error {
	e.ids = append(e.ids, d.ID)
	return nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		kind    Kind
		form    Form
		missing string
	}{
		{KindContact, Form{Name: "A", Email: "a@b.c", Message: "hi"}, ""},
		{KindContact, Form{Name: "A", Email: "a@b.c"}, "message"},
		{KindTextileDonation, Form{Email: "a@b.c", Message: "10kg"}, "name"},
		{KindVolunteer, Form{Name: "A", Message: "weekends"}, "email"},
		{KindJoinArtisan, Form{Name: "A"}, "phone"},
		{KindJoinArtisan, Form{Name: "A", Phone: "0100"}, ""},
		{KindNewsletter, Form{}, "email"},
		{KindNewsletter, Form{Email: "a@b.c"}, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.missing, func(t *testing.T) {
			err := Validate(tt.kind, tt.form)
			if tt.missing == "" {
				require.NoError(t, err)
				return
			}
			var mf *MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, tt.missing, mf.Field)
		})
	}
}

func TestService_Submit(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, repo, nil)

	sub, err := svc.Submit(context.Background(), KindVolunteer, Form{
		Name: "Omar", Email: "omar@example.com", Message: "Fridays", Skills: "sewing",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, sub.Status)
	assert.NotEmpty(t, sub.ID)
	require.Len(t, repo.subs, 1)
	assert.Equal(t, "sewing", repo.subs[0].Form.Skills)

	_, err = svc.Submit(context.Background(), Kind("survey"), Form{})
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestService_SubmitStorageError(t *testing.T) {
	repo := &memRepo{err: errors.New("disk full")}
	svc := NewService(repo, repo, nil)

	_, err := svc.Submit(context.Background(), KindNewsletter, Form{Email: "x@y.z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save newsletter submission")
}

func TestService_Donate(t *testing.T) {
	repo := &memRepo{}
	events := &donationEvents{}
	svc := NewService(repo, repo, events)
	ctx := context.Background()

	d, err := svc.Donate(ctx, Donation{Email: "d@example.com", Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, DonationOneTime, d.Type)
	assert.Equal(t, "EGP", d.Currency)
	assert.Equal(t, "stripe", d.PaymentMethod)
	assert.Equal(t, []string{d.ID}, events.ids)

	_, err = svc.Donate(ctx, Donation{Email: "d@example.com", Amount: decimal.Zero})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Donate(ctx, Donation{Amount: decimal.NewFromInt(1)})
	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)

	_, err = svc.Donate(ctx, Donation{Email: "d@example.com", Amount: decimal.NewFromInt(1), Type: "yearly"})
	require.ErrorIs(t, err, ErrInvalidDonationType)

	all, err := svc.Donations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
