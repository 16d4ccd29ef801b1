package errors

import (
	"errors"
	"fmt"
)

// NotFoundError means a name search returned zero hits.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no search results for %q", e.Query)
}

// NewNotFoundError creates a NotFoundError for the given query.
func NewNotFoundError(query string) *NotFoundError {
	return &NotFoundError{Query: query}
}

// IsNotFoundError reports whether err is a NotFoundError (even when wrapped).
func IsNotFoundError(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// AmbiguousError means more than one equally plausible search hit exists
// and the caller demanded a single unambiguous match.
type AmbiguousError struct {
	Query string
	Hits  int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d equally plausible results for %q", e.Hits, e.Query)
}

// NewAmbiguousError creates an AmbiguousError for the given query.
func NewAmbiguousError(query string, hits int) *AmbiguousError {
	return &AmbiguousError{Query: query, Hits: hits}
}

// IsAmbiguousError reports whether err is an AmbiguousError (even when wrapped).
func IsAmbiguousError(err error) bool {
	var ambErr *AmbiguousError
	return errors.As(err, &ambErr)
}
