package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates input rejected before touching the store.
	ErrValidation = errors.New("validation failed")
	// ErrNotRemoved indicates a remove matched no active rows.
	ErrNotRemoved = errors.New("not removed")
	// ErrDuplicateCode indicates a barcode code collision.
	ErrDuplicateCode = errors.New("duplicate code")
)
