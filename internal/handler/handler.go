// Package handler exposes the storefront backend over HTTP.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/handmade-storefront/internal/domain/auth"
	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/wire"
)

// IdempotencyHeader carries the checkout session's idempotency key.
const IdempotencyHeader = "Idempotency-Key"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 10 << 20

// Catalog is the product and artisan read model.
type Catalog interface {
	product.Repository
	product.ArtisanRepository
}

// Orders places and lists orders.
type Orders interface {
	PlaceOrder(ctx context.Context, req order.Request, idempotencyKey string) (*order.Ack, error)
	List(ctx context.Context) ([]order.Order, error)
}

// Inquiries accepts public forms and donations.
type Inquiries interface {
	Submit(ctx context.Context, kind inquiry.Kind, f inquiry.Form) (*inquiry.Submission, error)
	Donate(ctx context.Context, d inquiry.Donation) (*inquiry.Donation, error)
	Donations(ctx context.Context) ([]inquiry.Donation, error)
}

// Authenticator logs admins in.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// TokenValidator checks admin bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Deps are the Handler's collaborators.
type Deps struct {
	Catalog   Catalog
	Content   content.Repository
	Orders    Orders
	Inquiries Inquiries
	Auth      Authenticator
	Tokens    TokenValidator
}

// Handler serves the /api routes.
type Handler struct {
	catalog   Catalog
	content   content.Repository
	orders    Orders
	inquiries Inquiries
	auth      Authenticator
	tokens    TokenValidator
}

// New creates a Handler.
func New(d Deps) *Handler {
	return &Handler{
		catalog:   d.Catalog,
		content:   d.Content,
		orders:    d.Orders,
		inquiries: d.Inquiries,
		auth:      d.Auth,
		tokens:    d.Tokens,
	}
}

// Router returns a router with every API route under /api. The api
// middlewares wrap only that subtree. Unknown paths get a JSON 404.
func (h *Handler) Router(api ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(api...)

		r.Get("/products", h.listProducts)
		r.Get("/products/featured", h.listFeatured)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/artisans", h.listArtisans)
		r.Get("/artisans/{id}", h.getArtisan)
		r.Get("/impact", h.getImpact)
		r.Get("/impact-metrics", h.getImpact)
		r.Get("/blog", h.listPosts)
		r.Get("/blog-posts", h.listPosts)
		r.Get("/blog/{id}", h.getPost)
		r.Get("/collection-points", h.listCollectionPoints)

		for _, kind := range inquiry.Kinds {
			r.Post("/"+string(kind), h.submitForm(kind))
		}
		r.Post("/donate", h.donate)
		r.Post("/checkout", h.checkout)
		r.Post("/orders", h.checkout)

		r.Post("/admin/login", h.login)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/admin/orders", h.adminOrders)
			r.Get("/admin/donations", h.adminDonations)
		})
	})
	return r
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(wire.Encode(fn))
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) { wire.EncodeMessage(e, msg) })
}
