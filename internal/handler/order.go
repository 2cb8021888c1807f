package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/handmade-storefront/internal/wire"
)

// checkout places an order. A repeated Idempotency-Key returns the first
// acknowledgement instead of creating a second order.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := wire.DecodeOrderRequest(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ack, err := h.orders.PlaceOrder(r.Context(), req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeAck(e, *ack) })
}

func (h *Handler) adminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeOrders(e, orders) })
}
