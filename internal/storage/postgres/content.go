package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/handmade-storefront/internal/domain/content"
)

const (
	listPostsSQL = `SELECT id, title_en, title_ar, content_en, content_ar, author, published, image_url
		FROM blog_posts ORDER BY published DESC, id`

	getPostSQL = `SELECT id, title_en, title_ar, content_en, content_ar, author, published, image_url
		FROM blog_posts WHERE id = $1`

	listPointsSQL = `SELECT id, name_en, name_ar, address_en, address_ar, hours_en, hours_ar,
		latitude, longitude, contact_phone
		FROM collection_points ORDER BY id`

	ensureImpactSQL = `INSERT INTO impact_metrics (id) VALUES (1) ON CONFLICT (id) DO NOTHING`

	getImpactSQL = `SELECT textiles_diverted_kg, women_trained, income_disbursed, campaign_goal, campaign_raised
		FROM impact_metrics WHERE id = 1`

	setImpactSQL = `INSERT INTO impact_metrics (id, textiles_diverted_kg, women_trained, income_disbursed,
			campaign_goal, campaign_raised)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			textiles_diverted_kg = EXCLUDED.textiles_diverted_kg,
			women_trained = EXCLUDED.women_trained,
			income_disbursed = EXCLUDED.income_disbursed,
			campaign_goal = EXCLUDED.campaign_goal,
			campaign_raised = EXCLUDED.campaign_raised,
			updated_at = now()`

	upsertPostSQL = `INSERT INTO blog_posts (id, title_en, title_ar, content_en, content_ar, author, published, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title_en = EXCLUDED.title_en, title_ar = EXCLUDED.title_ar,
			content_en = EXCLUDED.content_en, content_ar = EXCLUDED.content_ar,
			author = EXCLUDED.author, published = EXCLUDED.published, image_url = EXCLUDED.image_url`

	upsertPointSQL = `INSERT INTO collection_points (id, name_en, name_ar, address_en, address_ar,
			hours_en, hours_ar, latitude, longitude, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name_en = EXCLUDED.name_en, name_ar = EXCLUDED.name_ar,
			address_en = EXCLUDED.address_en, address_ar = EXCLUDED.address_ar,
			hours_en = EXCLUDED.hours_en, hours_ar = EXCLUDED.hours_ar,
			latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			contact_phone = EXCLUDED.contact_phone`
)

var _ content.Repository = (*ContentRepository)(nil)

// ContentRepository serves blog posts, collection points and impact metrics.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository returns a ContentRepository that uses the given pool.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func (r *ContentRepository) ListPosts(ctx context.Context) ([]content.BlogPost, error) {
	rows, err := r.pool.Query(ctx, listPostsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	return pgx.CollectRows(rows, scanPost)
}

func (r *ContentRepository) GetPost(ctx context.Context, id string) (*content.BlogPost, error) {
	rows, err := r.pool.Query(ctx, getPostSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting blog post %q: %w", id, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrPostNotFound
		}
		return nil, fmt.Errorf("getting blog post %q: %w", id, err)
	}
	return &p, nil
}

func (r *ContentRepository) ListCollectionPoints(ctx context.Context) ([]content.CollectionPoint, error) {
	rows, err := r.pool.Query(ctx, listPointsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing collection points: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (content.CollectionPoint, error) {
		var c content.CollectionPoint
		err := row.Scan(&c.ID, &c.Name.EN, &c.Name.AR, &c.Address.EN, &c.Address.AR,
			&c.Hours.EN, &c.Hours.AR, &c.Latitude, &c.Longitude, &c.ContactPhone)
		return c, err
	})
}

// Impact returns the dashboard row, inserting the defaults on first use.
func (r *ContentRepository) Impact(ctx context.Context) (*content.ImpactMetrics, error) {
	if _, err := r.pool.Exec(ctx, ensureImpactSQL); err != nil {
		return nil, fmt.Errorf("ensuring impact metrics: %w", err)
	}
	var m content.ImpactMetrics
	err := r.pool.QueryRow(ctx, getImpactSQL).Scan(
		&m.TextilesDivertedKg, &m.WomenTrained, &m.IncomeDisbursed, &m.CampaignGoal, &m.CampaignRaised,
	)
	if err != nil {
		return nil, fmt.Errorf("getting impact metrics: %w", err)
	}
	return &m, nil
}

// SetImpact overwrites the dashboard row.
func (r *ContentRepository) SetImpact(ctx context.Context, m content.ImpactMetrics) error {
	_, err := r.pool.Exec(ctx, setImpactSQL,
		m.TextilesDivertedKg, m.WomenTrained, m.IncomeDisbursed, m.CampaignGoal, m.CampaignRaised,
	)
	if err != nil {
		return fmt.Errorf("setting impact metrics: %w", err)
	}
	return nil
}

// UpsertPost inserts or replaces a blog post.
func (r *ContentRepository) UpsertPost(ctx context.Context, p content.BlogPost) error {
	_, err := r.pool.Exec(ctx, upsertPostSQL,
		p.ID, p.Title.EN, p.Title.AR, p.Content.EN, p.Content.AR, p.Author, p.Date, p.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("upserting blog post %q: %w", p.ID, err)
	}
	return nil
}

// UpsertCollectionPoint inserts or replaces a collection point.
func (r *ContentRepository) UpsertCollectionPoint(ctx context.Context, c content.CollectionPoint) error {
	_, err := r.pool.Exec(ctx, upsertPointSQL,
		c.ID, c.Name.EN, c.Name.AR, c.Address.EN, c.Address.AR,
		c.Hours.EN, c.Hours.AR, c.Latitude, c.Longitude, c.ContactPhone,
	)
	if err != nil {
		return fmt.Errorf("upserting collection point %q: %w", c.ID, err)
	}
	return nil
}

func scanPost(row pgx.CollectableRow) (content.BlogPost, error) {
	var p content.BlogPost
	err := row.Scan(&p.ID, &p.Title.EN, &p.Title.AR, &p.Content.EN, &p.Content.AR,
		&p.Author, &p.Date, &p.ImageURL)
	return p, err
}
