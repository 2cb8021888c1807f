package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/domain/auth"
	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/wire"
)

var badRequest = []error{
	order.ErrEmptyItems,
	order.ErrUnknownPaymentMethod,
	inquiry.ErrInvalidAmount,
	inquiry.ErrInvalidDonationType,
	inquiry.ErrUnknownKind,
}

// statusOf maps an error to a status code and the client-facing message.
func statusOf(err error) (int, string) {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	var (
		tooLarge     *http.MaxBytesError
		decodeErr    *wire.DecodeError
		orderField   *order.MissingFieldError
		inquiryField *inquiry.MissingFieldError
		invalidItem  *order.InvalidItemError
		mismatch     *order.TotalMismatchError
		unknown      *order.ProductNotFoundError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest, decodeErr.Error()
	case errors.As(err, &orderField):
		return http.StatusBadRequest, orderField.Error()
	case errors.As(err, &inquiryField):
		return http.StatusBadRequest, inquiryField.Error()
	case errors.As(err, &invalidItem):
		return http.StatusUnprocessableEntity, invalidItem.Error()
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity, mismatch.Error()
	case errors.As(err, &unknown):
		return http.StatusUnprocessableEntity, unknown.Error()
	case errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, product.ErrArtisanNotFound):
		return http.StatusNotFound, "Artisan not found"
	case errors.Is(err, content.ErrPostNotFound):
		return http.StatusNotFound, "Blog post not found"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError answers with the mapped status. Internal errors are logged and
// never echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeMessage(w, status, msg)
}
