// Package content models the editorial parts of the site: blog posts,
// textile collection points and the impact dashboard.
package content

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/handmade-storefront/internal/i18n"
)

// ErrPostNotFound is returned when a blog post does not exist.
var ErrPostNotFound = errors.New("blog post not found")

// BlogPost is a bilingual article.
type BlogPost struct {
	ID       string
	Title    i18n.Text
	Content  i18n.Text
	Author   string
	Date     time.Time
	ImageURL string
}

// CollectionPoint is a drop-off location for textile donations.
type CollectionPoint struct {
	ID           string
	Name         i18n.Text
	Address      i18n.Text
	Latitude     float64
	Longitude    float64
	Hours        i18n.Text
	ContactPhone string
}

// ImpactMetrics is the single-row impact dashboard.
type ImpactMetrics struct {
	TextilesDivertedKg int
	WomenTrained       int
	IncomeDisbursed    decimal.Decimal
	CampaignGoal       decimal.Decimal
	CampaignRaised     decimal.Decimal
}

// DefaultImpact is what the dashboard reports before anything was recorded.
func DefaultImpact() ImpactMetrics {
	return ImpactMetrics{
		IncomeDisbursed: decimal.Zero,
		CampaignGoal:    decimal.NewFromInt(50000),
		CampaignRaised:  decimal.Zero,
	}
}

// Repository provides read access to editorial content.
type Repository interface {
	ListPosts(ctx context.Context) ([]BlogPost, error)
	GetPost(ctx context.Context, id string) (*BlogPost, error)
	ListCollectionPoints(ctx context.Context) ([]CollectionPoint, error)
	// Impact returns the dashboard row, creating it with DefaultImpact when absent.
	Impact(ctx context.Context) (*ImpactMetrics, error)
}
