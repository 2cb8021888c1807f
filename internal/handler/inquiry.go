package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/wire"
)

func (h *Handler) submitForm(kind inquiry.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		form, err := wire.DecodeForm(body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := h.inquiries.Submit(r.Context(), kind, form); err != nil {
			writeError(w, r, err)
			return
		}
		ack := order.Ack{Success: true, Message: kind.SuccessMessage()}
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeAck(e, ack) })
	}
}

func (h *Handler) donate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dn, err := wire.DecodeDonation(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := h.inquiries.Donate(r.Context(), dn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("donationId")
		e.Str(saved.ID)
		e.FieldStart("message")
		e.Str(inquiry.DonationMessage)
		e.ObjEnd()
	})
}

func (h *Handler) adminDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.inquiries.Donations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeDonations(e, donations) })
}
