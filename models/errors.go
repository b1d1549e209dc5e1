package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the repositories. Handlers match them with
// errors.Is to pick a response status.
var (
	// ErrCategoryNotFound is returned when a category slug is unknown.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product reference or slug does
	// not resolve to a row in its variant table.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartNotFound is returned when a cart id does not resolve.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when a cart mutation targets a line
	// item the cart does not contain.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrCustomerNotFound is returned when a customer id does not resolve.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrUnsupportedKind is returned for a type tag outside the known
	// product variants, before any lookup is attempted.
	ErrUnsupportedKind = errors.New("unsupported product kind")
)

// ValidationError rejects a write whose input breaks a model rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
