package facade

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
)

// DefaultTTL is how long Cached keeps a successful read.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value   any
	expires time.Time
}

// Cached memoizes successful reads of the wrapped Facade for a TTL. Concurrent
// reads of the same key share one underlying call. Cached values are shared
// between callers and must not be modified.
type Cached struct {
	next Facade
	ttl  time.Duration
	now  func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]entry
}

var _ Facade = (*Cached)(nil)

// NewCached wraps next. A non-positive ttl means DefaultTTL.
func NewCached(next Facade, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{next: next, ttl: ttl, now: time.Now, entries: map[string]entry{}}
}

// Clear drops the entry for key, or every entry when key is "".
func (c *Cached) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		clear(c.entries)
		return
	}
	delete(c.entries, key)
}

func (c *Cached) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cached) store(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: v, expires: c.now().Add(c.ttl)}
}

func memo[T any](ctx context.Context, c *Cached, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v.(T), nil
	}
	ch := c.group.DoChan(key, func() (any, error) {
		// Shared by every waiter, so it must not inherit one caller's cancellation.
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func productsKey(f product.Filter) string {
	var b strings.Builder
	b.WriteString("products")
	if f.FeaturedOnly {
		b.WriteString("?featured")
	}
	if f.Category != "" {
		b.WriteString("?category=")
		b.WriteString(f.Category)
	}
	return b.String()
}

func (c *Cached) Products(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	return memo(ctx, c, productsKey(filter), func(ctx context.Context) ([]product.Product, error) {
		return c.next.Products(ctx, filter)
	})
}

func (c *Cached) Product(ctx context.Context, id string) (*product.Product, error) {
	return memo(ctx, c, "product/"+id, func(ctx context.Context) (*product.Product, error) {
		return c.next.Product(ctx, id)
	})
}

func (c *Cached) Artisans(ctx context.Context) ([]product.Artisan, error) {
	return memo(ctx, c, "artisans", c.next.Artisans)
}

func (c *Cached) Artisan(ctx context.Context, id string) (*product.Artisan, error) {
	return memo(ctx, c, "artisan/"+id, func(ctx context.Context) (*product.Artisan, error) {
		return c.next.Artisan(ctx, id)
	})
}

func (c *Cached) BlogPosts(ctx context.Context) ([]content.BlogPost, error) {
	return memo(ctx, c, "blog", c.next.BlogPosts)
}

func (c *Cached) BlogPost(ctx context.Context, id string) (*content.BlogPost, error) {
	return memo(ctx, c, "blog/"+id, func(ctx context.Context) (*content.BlogPost, error) {
		return c.next.BlogPost(ctx, id)
	})
}

func (c *Cached) CollectionPoints(ctx context.Context) ([]content.CollectionPoint, error) {
	return memo(ctx, c, "collection-points", c.next.CollectionPoints)
}

func (c *Cached) Impact(ctx context.Context) (*content.ImpactMetrics, error) {
	return memo(ctx, c, "impact", c.next.Impact)
}

// SubmitOrder is never cached. A successful order invalidates product reads
// since stock changed.
func (c *Cached) SubmitOrder(ctx context.Context, req order.Request, idempotencyKey string) (*order.Ack, error) {
	ack, err := c.next.SubmitOrder(ctx, req, idempotencyKey)
	if err == nil {
		c.clearPrefix("product")
	}
	return ack, err
}

func (c *Cached) SubmitForm(ctx context.Context, kind inquiry.Kind, form inquiry.Form) (*order.Ack, error) {
	return c.next.SubmitForm(ctx, kind, form)
}

func (c *Cached) clearPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}
