package facade

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
)

// Fallback reads from primary and serves reads from secondary when primary
// fails for any reason other than ErrNotFound. Writes only go to primary.
type Fallback struct {
	primary   Facade
	secondary Facade
	lg        *zap.Logger
}

var _ Facade = (*Fallback)(nil)

// NewFallback creates a Fallback.
func NewFallback(primary, secondary Facade, lg *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, lg: lg}
}

func fallback[T any](f *Fallback, op string, primary, secondary func() (T, error)) (T, error) {
	v, err := primary()
	if err == nil || errors.Is(err, ErrNotFound) {
		return v, err
	}
	f.lg.Warn("Primary unavailable, using fallback data", zap.String("op", op), zap.Error(err))
	return secondary()
}

func (f *Fallback) Products(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	return fallback(f, "products",
		func() ([]product.Product, error) { return f.primary.Products(ctx, filter) },
		func() ([]product.Product, error) { return f.secondary.Products(ctx, filter) },
	)
}

func (f *Fallback) Product(ctx context.Context, id string) (*product.Product, error) {
	return fallback(f, "product",
		func() (*product.Product, error) { return f.primary.Product(ctx, id) },
		func() (*product.Product, error) { return f.secondary.Product(ctx, id) },
	)
}

func (f *Fallback) Artisans(ctx context.Context) ([]product.Artisan, error) {
	return fallback(f, "artisans", func() ([]product.Artisan, error) { return f.primary.Artisans(ctx) },
		func() ([]product.Artisan, error) { return f.secondary.Artisans(ctx) })
}

func (f *Fallback) Artisan(ctx context.Context, id string) (*product.Artisan, error) {
	return fallback(f, "artisan", func() (*product.Artisan, error) { return f.primary.Artisan(ctx, id) },
		func() (*product.Artisan, error) { return f.secondary.Artisan(ctx, id) })
}

func (f *Fallback) BlogPosts(ctx context.Context) ([]content.BlogPost, error) {
	return fallback(f, "blog posts", func() ([]content.BlogPost, error) { return f.primary.BlogPosts(ctx) },
		func() ([]content.BlogPost, error) { return f.secondary.BlogPosts(ctx) })
}

func (f *Fallback) BlogPost(ctx context.Context, id string) (*content.BlogPost, error) {
	return fallback(f, "blog post", func() (*content.BlogPost, error) { return f.primary.BlogPost(ctx, id) },
		func() (*content.BlogPost, error) { return f.secondary.BlogPost(ctx, id) })
}

func (f *Fallback) CollectionPoints(ctx context.Context) ([]content.CollectionPoint, error) {
	return fallback(f, "collection points",
		func() ([]content.CollectionPoint, error) { return f.primary.CollectionPoints(ctx) },
		func() ([]content.CollectionPoint, error) { return f.secondary.CollectionPoints(ctx) })
}

func (f *Fallback) Impact(ctx context.Context) (*content.ImpactMetrics, error) {
	return fallback(f, "impact", func() (*content.ImpactMetrics, error) { return f.primary.Impact(ctx) },
		func() (*content.ImpactMetrics, error) { return f.secondary.Impact(ctx) })
}

func (f *Fallback) SubmitOrder(ctx context.Context, req order.Request, idempotencyKey string) (*order.Ack, error) {
	return f.primary.SubmitOrder(ctx, req, idempotencyKey)
}

func (f *Fallback) SubmitForm(ctx context.Context, kind inquiry.Kind, form inquiry.Form) (*order.Ack, error) {
	return f.primary.SubmitForm(ctx, kind, form)
}
