// Package errors provides the standardized error taxonomy for the catalog
// service. It defines the sentinel errors returned by the store and the
// catalog service, plus helper functions used by the HTTP layer to map an
// error to a response class.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the catalog service and the store.
// These provide consistent error classes across the implementation.
var (
	// ErrProductNotFound is returned when a product ID is absent from the
	// products collection.
	ErrProductNotFound = errors.New("catalog: product not found")

	// ErrMerchantNotFound is returned when a merchant ID is absent from the
	// merchants collection.
	ErrMerchantNotFound = errors.New("catalog: merchant not found")

	// ErrPriceOptionNotFound is returned when no price option on the product
	// matches both the requested option ID and the requesting merchant.
	ErrPriceOptionNotFound = errors.New("catalog: price option not found")

	// ErrDiscountNotFound is returned when a discount removal targets a price
	// option that carries no discount. It reports the same response class as
	// ErrPriceOptionNotFound; the distinct sentinel only improves the message.
	ErrDiscountNotFound = errors.New("catalog: discount not found")

	// ErrValidation is returned when a mutation request is missing required
	// fields or carries malformed values.
	ErrValidation = errors.New("catalog: invalid request")

	// ErrPersistence is returned when the underlying store failed to write a
	// collection. The in-memory mutation may or may not have been observed by
	// other readers; there is no rollback.
	ErrPersistence = errors.New("catalog: persistence failure")
)

// CollectionError associates an error with the collection that caused it.
type CollectionError struct {
	Collection string
	Err        error
}

// Error returns the formatted error message including the collection.
func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Collection)
}

// Unwrap returns the underlying error so errors.Is and errors.As work
// through the wrapper.
func (e *CollectionError) Unwrap() error {
	return e.Err
}

// NewCollectionError wraps err with the collection it relates to.
func NewCollectionError(collection string, err error) *CollectionError {
	return &CollectionError{Collection: collection, Err: err}
}

// Wrap annotates err with a message while keeping the sentinel reachable
// for errors.Is.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// IsNotFound returns true if the error reports any of the not-found
// outcomes (product, merchant, price option or discount).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrMerchantNotFound) ||
		errors.Is(err, ErrPriceOptionNotFound) ||
		errors.Is(err, ErrDiscountNotFound)
}

// IsValidation returns true if the error is or wraps ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPersistence returns true if the error is or wraps ErrPersistence.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
