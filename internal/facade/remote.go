package facade

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/wire"
)

// IdempotencyHeader carries the checkout session's idempotency key.
const IdempotencyHeader = "Idempotency-Key"

const maxResponseBytes = 4 << 20

// Remote talks to the REST backend.
type Remote struct {
	base   string
	client *http.Client
}

var _ Facade = (*Remote)(nil)

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) { r.client = c }
}

// NewRemote creates a Remote for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func NewRemote(baseURL string, timeout time.Duration, opts ...RemoteOption) *Remote {
	r := &Remote{
		base: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Remote) do(ctx context.Context, op, method, path string, body []byte, header http.Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: errors.Wrap(err, "read body")}
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrap(ErrNotFound, op)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ServerError{Status: resp.StatusCode, Message: wire.DecodeMessage(data)}
	}
	return data, nil
}

func (r *Remote) get(ctx context.Context, op, path string) (*jx.Decoder, error) {
	data, err := r.do(ctx, op, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return jx.DecodeBytes(data), nil
}

func (r *Remote) Products(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	q := url.Values{}
	if filter.FeaturedOnly {
		q.Set("featured", "true")
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	d, err := r.get(ctx, "list products", path)
	if err != nil {
		return nil, err
	}
	return wire.DecodeProducts(d)
}

func (r *Remote) Product(ctx context.Context, id string) (*product.Product, error) {
	d, err := r.get(ctx, "get product", "/products/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	p, err := wire.DecodeProduct(d)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Remote) Artisans(ctx context.Context) ([]product.Artisan, error) {
	d, err := r.get(ctx, "list artisans", "/artisans")
	if err != nil {
		return nil, err
	}
	return wire.DecodeArtisans(d)
}

func (r *Remote) Artisan(ctx context.Context, id string) (*product.Artisan, error) {
	d, err := r.get(ctx, "get artisan", "/artisans/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	a, err := wire.DecodeArtisan(d)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Remote) BlogPosts(ctx context.Context) ([]content.BlogPost, error) {
	d, err := r.get(ctx, "list blog posts", "/blog")
	if err != nil {
		return nil, err
	}
	return wire.DecodeBlogPosts(d)
}

func (r *Remote) BlogPost(ctx context.Context, id string) (*content.BlogPost, error) {
	d, err := r.get(ctx, "get blog post", "/blog/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	p, err := wire.DecodeBlogPost(d)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Remote) CollectionPoints(ctx context.Context) ([]content.CollectionPoint, error) {
	d, err := r.get(ctx, "list collection points", "/collection-points")
	if err != nil {
		return nil, err
	}
	return wire.DecodeCollectionPoints(d)
}

func (r *Remote) Impact(ctx context.Context) (*content.ImpactMetrics, error) {
	d, err := r.get(ctx, "get impact", "/impact")
	if err != nil {
		return nil, err
	}
	m, err := wire.DecodeImpact(d)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SubmitOrder posts the order to /checkout. A non-empty idempotencyKey is
// sent in the Idempotency-Key header.
func (r *Remote) SubmitOrder(ctx context.Context, req order.Request, idempotencyKey string) (*order.Ack, error) {
	body := wire.Encode(func(e *jx.Encoder) { wire.EncodeOrderRequest(e, req) })
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set(IdempotencyHeader, idempotencyKey)
	}
	data, err := r.do(ctx, "submit order", http.MethodPost, "/checkout", body, header)
	if err != nil {
		return nil, err
	}
	ack, err := wire.DecodeAck(data)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// SubmitForm posts a public form to /<kind>.
func (r *Remote) SubmitForm(ctx context.Context, kind inquiry.Kind, form inquiry.Form) (*order.Ack, error) {
	body := wire.Encode(func(e *jx.Encoder) { wire.EncodeForm(e, form) })
	data, err := r.do(ctx, "submit "+string(kind), http.MethodPost, "/"+string(kind), body, nil)
	if err != nil {
		return nil, err
	}
	ack, err := wire.DecodeAck(data)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}
