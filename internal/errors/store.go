package errors

import (
	"errors"
	"fmt"
)

// StoreError represents a persistence failure in the record store.
// It is terminal: store writes are never retried by the pipeline.
type StoreError struct {
	Op  string // "create", "update", "find", "list"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps a store failure with the operation that caused it.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is a StoreError (even when wrapped).
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
