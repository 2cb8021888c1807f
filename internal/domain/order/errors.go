package order

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems = errors.New("items required")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidItemError indicates a line item with a non-positive quantity or price.
type InvalidItemError struct {
	ProductID string
	Reason    string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("invalid item %s: %s", e.ProductID, e.Reason)
}

// MissingFieldError indicates a required customer field is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// TotalMismatchError indicates the submitted total disagrees with the line items.
type TotalMismatchError struct {
	Submitted decimal.Decimal
	Computed  decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total_amount %s does not match items total %s", e.Submitted, e.Computed)
}
