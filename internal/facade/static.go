package facade

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/wire"
)

// Static serves the embedded catalog. Submissions are not sent anywhere and
// always succeed.
type Static struct {
	catalog  *wire.Catalog
	artisans map[string]product.Artisan

	mu        sync.Mutex
	submitted []order.Request
}

var _ Facade = (*Static)(nil)

// NewStatic parses a catalog document (see db.Catalog).
func NewStatic(data []byte) (*Static, error) {
	c, err := wire.DecodeCatalog(data)
	if err != nil {
		return nil, err
	}
	s := &Static{catalog: c, artisans: make(map[string]product.Artisan, len(c.Artisans))}
	for _, a := range c.Artisans {
		s.artisans[a.ID] = a
	}
	slices.SortStableFunc(c.BlogPosts, func(a, b content.BlogPost) int {
		return b.Date.Compare(a.Date)
	})
	return s, nil
}

func (s *Static) withArtisan(p product.Product) product.Product {
	if a, ok := s.artisans[p.ArtisanID]; ok {
		p.Artisan = &a
	}
	return p
}

func (s *Static) Products(_ context.Context, filter product.Filter) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.catalog.Products {
		if filter.Match(p) {
			out = append(out, s.withArtisan(p))
		}
	}
	return out, nil
}

func (s *Static) Product(_ context.Context, id string) (*product.Product, error) {
	for _, p := range s.catalog.Products {
		if p.ID == id {
			p = s.withArtisan(p)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Static) Artisans(context.Context) ([]product.Artisan, error) {
	return slices.Clone(s.catalog.Artisans), nil
}

func (s *Static) Artisan(_ context.Context, id string) (*product.Artisan, error) {
	a, ok := s.artisans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *Static) BlogPosts(context.Context) ([]content.BlogPost, error) {
	return slices.Clone(s.catalog.BlogPosts), nil
}

func (s *Static) BlogPost(_ context.Context, id string) (*content.BlogPost, error) {
	for _, p := range s.catalog.BlogPosts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Static) CollectionPoints(context.Context) ([]content.CollectionPoint, error) {
	return slices.Clone(s.catalog.CollectionPoints), nil
}

func (s *Static) Impact(context.Context) (*content.ImpactMetrics, error) {
	m := s.catalog.Impact
	return &m, nil
}

func (s *Static) SubmitOrder(_ context.Context, req order.Request, _ string) (*order.Ack, error) {
	s.mu.Lock()
	s.submitted = append(s.submitted, req)
	s.mu.Unlock()
	return &order.Ack{Success: true, OrderID: uuid.NewString(), Message: order.MessagePlaced}, nil
}

func (s *Static) SubmitForm(_ context.Context, kind inquiry.Kind, form inquiry.Form) (*order.Ack, error) {
	if err := inquiry.Validate(kind, form); err != nil {
		return nil, err
	}
	return &order.Ack{Success: true, Message: kind.SuccessMessage()}, nil
}

// Submitted returns the orders accepted so far.
func (s *Static) Submitted() []order.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.submitted)
}
