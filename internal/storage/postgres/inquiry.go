package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
)

const (
	saveSubmissionSQL = `INSERT INTO submissions (id, kind, name, email, phone, company, skills,
			availability, location, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	listSubmissionsSQL = `SELECT id, kind, name, email, phone, company, skills, availability,
		location, message, status, created_at
		FROM submissions WHERE ($1::text = '' OR kind = $1)
		ORDER BY created_at DESC, id`

	createDonationSQL = `INSERT INTO donations (id, donor_name, email, amount, currency,
			donation_type, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	raiseCampaignSQL = `INSERT INTO impact_metrics (id, campaign_raised) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET
			campaign_raised = impact_metrics.campaign_raised + EXCLUDED.campaign_raised,
			updated_at = now()`

	listDonationsSQL = `SELECT id, donor_name, email, amount, currency, donation_type,
		payment_method, created_at
		FROM donations ORDER BY created_at DESC, id`
)

var (
	_ inquiry.Repository         = (*InquiryRepository)(nil)
	_ inquiry.DonationRepository = (*InquiryRepository)(nil)
)

// InquiryRepository stores form submissions and donations.
type InquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository returns an InquiryRepository that uses the given pool.
func NewInquiryRepository(pool *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{pool: pool}
}

func (r *InquiryRepository) SaveSubmission(ctx context.Context, s *inquiry.Submission) error {
	f := s.Form
	_, err := r.pool.Exec(ctx, saveSubmissionSQL,
		s.ID, string(s.Kind), f.Name, f.Email, f.Phone, f.Company, f.Skills,
		f.Availability, f.Location, f.Message, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving %s submission: %w", s.Kind, err)
	}
	return nil
}

// ListSubmissions returns submissions of kind, or of every kind when kind is
// empty, newest first.
func (r *InquiryRepository) ListSubmissions(ctx context.Context, kind inquiry.Kind) ([]inquiry.Submission, error) {
	rows, err := r.pool.Query(ctx, listSubmissionsSQL, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (inquiry.Submission, error) {
		var (
			s    inquiry.Submission
			kind string
		)
		f := &s.Form
		err := row.Scan(&s.ID, &kind, &f.Name, &f.Email, &f.Phone, &f.Company, &f.Skills,
			&f.Availability, &f.Location, &f.Message, &s.Status, &s.CreatedAt)
		s.Kind = inquiry.Kind(kind)
		return s, err
	})
}

// CreateDonation stores d and adds its amount to the campaign total in one
// transaction.
func (r *InquiryRepository) CreateDonation(ctx context.Context, d *inquiry.Donation) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createDonationSQL,
			d.ID, d.DonorName, d.Email, d.Amount, d.Currency, string(d.Type), d.PaymentMethod, d.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, raiseCampaignSQL, d.Amount)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating donation %q: %w", d.ID, err)
	}
	return nil
}

func (r *InquiryRepository) ListDonations(ctx context.Context) ([]inquiry.Donation, error) {
	rows, err := r.pool.Query(ctx, listDonationsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (inquiry.Donation, error) {
		var (
			d   inquiry.Donation
			typ string
		)
		err := row.Scan(&d.ID, &d.DonorName, &d.Email, &d.Amount, &d.Currency, &typ,
			&d.PaymentMethod, &d.CreatedAt)
		d.Type = inquiry.DonationType(typ)
		return d, err
	})
}
