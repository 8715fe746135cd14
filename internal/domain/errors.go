package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means a supplier could not be reached or answered with a failure status.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedPayload means a supplier answered with data that cannot be parsed at all.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMalformedRecord means a single raw record lacks its identity and was skipped.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidQuery means the hotel/destination filter arguments are malformed.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrDuplicateHotel means a catalog insert would repeat an (id, destination_id) pair.
	ErrDuplicateHotel = errors.New("duplicate hotel")
	// ErrAllSuppliersFailed means no supplier delivered a payload in a run.
	ErrAllSuppliersFailed = errors.New("all suppliers failed")
)

// SupplierError wraps a fetch failure of one supplier.
// Kind is ErrSourceUnavailable or ErrMalformedPayload.
type SupplierError struct {
	Supplier string
	Kind     error
	Err      error
}

func (e *SupplierError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("supplier %s: %v", e.Supplier, e.Kind)
	}
	return fmt.Sprintf("supplier %s: %v: %v", e.Supplier, e.Kind, e.Err)
}

func (e *SupplierError) Unwrap() error { return e.Err }

func (e *SupplierError) Is(target error) bool { return target == e.Kind }

// Unavailable builds a SupplierError of kind ErrSourceUnavailable.
func Unavailable(supplier string, err error) *SupplierError {
	return &SupplierError{Supplier: supplier, Kind: ErrSourceUnavailable, Err: err}
}

// Malformed builds a SupplierError of kind ErrMalformedPayload.
func Malformed(supplier string, err error) *SupplierError {
	return &SupplierError{Supplier: supplier, Kind: ErrMalformedPayload, Err: err}
}

// QueryError describes a rejected filter argument.
type QueryError struct {
	Param  string
	Value  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Reason)
}

func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }
