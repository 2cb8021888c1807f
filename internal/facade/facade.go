// Package facade is the storefront's single entry point to catalog data and
// order submission, backed by the REST API, the embedded catalog, or both.
package facade

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// NetworkError is a transport failure: the request may or may not have
// reached the backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx answer from the backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Facade provides catalog reads and submissions.
type Facade interface {
	Products(ctx context.Context, filter product.Filter) ([]product.Product, error)
	Product(ctx context.Context, id string) (*product.Product, error)
	Artisans(ctx context.Context) ([]product.Artisan, error)
	Artisan(ctx context.Context, id string) (*product.Artisan, error)
	BlogPosts(ctx context.Context) ([]content.BlogPost, error)
	BlogPost(ctx context.Context, id string) (*content.BlogPost, error)
	CollectionPoints(ctx context.Context) ([]content.CollectionPoint, error)
	Impact(ctx context.Context) (*content.ImpactMetrics, error)

	SubmitOrder(ctx context.Context, req order.Request, idempotencyKey string) (*order.Ack, error)
	SubmitForm(ctx context.Context, kind inquiry.Kind, form inquiry.Form) (*order.Ack, error)
}
