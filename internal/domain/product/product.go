package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/handmade-storefront/internal/i18n"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrArtisanNotFound is returned when a requested artisan does not exist.
	ErrArtisanNotFound = errors.New("artisan not found")
)

// Product represents a handmade catalog item available for purchase.
type Product struct {
	ID          string
	Name        i18n.Text
	Description i18n.Text
	Price       decimal.Decimal
	Category    string
	Images      []string
	ArtisanID   string
	Materials   i18n.Text
	Care        i18n.Text
	// Stock is advisory: checkout never blocks on it.
	Stock    int
	Featured bool

	// Artisan is populated by list and detail reads when ArtisanID is set.
	Artisan *Artisan
}

// PrimaryImage returns the first image URL or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Artisan is a maker whose products are sold in the store.
type Artisan struct {
	ID       string
	Name     i18n.Text
	Bio      i18n.Text
	ImageURL string
}

// Filter narrows a product listing. Zero value lists everything.
type Filter struct {
	FeaturedOnly bool
	Category     string
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Product) bool {
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.Category != "" && f.Category != p.Category {
		return false
	}
	return true
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}

// ArtisanRepository defines read operations for artisans.
type ArtisanRepository interface {
	ListArtisans(ctx context.Context) ([]Artisan, error)
	GetArtisan(ctx context.Context, id string) (*Artisan, error)
}
