package errors

import "errors"

// ParsingError means a document as a whole could not be parsed into the
// expected structure (e.g., the profile header anchor is missing).
// Individual fields failing to parse is not a ParsingError; those fields
// are simply unknown.
type ParsingError struct {
	Message string
}

func (e *ParsingError) Error() string {
	return e.Message
}

// NewParsingError creates a new ParsingError with the given message.
func NewParsingError(message string) *ParsingError {
	return &ParsingError{Message: message}
}

// IsParsingError reports whether err is a ParsingError (even when wrapped).
func IsParsingError(err error) bool {
	var parseErr *ParsingError
	return errors.As(err, &parseErr)
}
