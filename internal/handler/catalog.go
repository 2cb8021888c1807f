package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/wire"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.Filter{
		FeaturedOnly: q.Get("featured") == "true",
		Category:     q.Get("category"),
	}
	h.writeProducts(w, r, filter)
}

func (h *Handler) listFeatured(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, product.Filter{FeaturedOnly: true})
}

func (h *Handler) writeProducts(w http.ResponseWriter, r *http.Request, filter product.Filter) {
	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeProducts(e, products) })
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeProduct(e, *p) })
}

func (h *Handler) listArtisans(w http.ResponseWriter, r *http.Request) {
	artisans, err := h.catalog.ListArtisans(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeArtisans(e, artisans) })
}

func (h *Handler) getArtisan(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalog.GetArtisan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeArtisan(e, *a) })
}

func (h *Handler) getImpact(w http.ResponseWriter, r *http.Request) {
	m, err := h.content.Impact(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeImpact(e, *m) })
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeBlogPosts(e, posts) })
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.content.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeBlogPost(e, *p) })
}

func (h *Handler) listCollectionPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.content.ListCollectionPoints(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeCollectionPoints(e, points) })
}
