package readinglists

import (
	"errors"

	"github.com/mrlokans/readinglists/internal/validation"
)

var (
	// ErrNotFoundOrForbidden is returned for a list that does not exist and for
	// a list owned by someone else alike, so callers cannot probe for ids.
	ErrNotFoundOrForbidden = errors.New("reading list not found or you do not have permission to access it")
	ErrDuplicateName       = errors.New("you already have a reading list with this name")
	ErrDuplicateMembership = errors.New("this book is already in the reading list")
	ErrBookNotFound        = errors.New("book not found")
	ErrItemNotFound        = errors.New("book not found in the reading list")
)

// ValidationError describes malformed input, keyed by field name.
type ValidationError = validation.Error

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return validation.NewError(field, message)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	return validation.IsError(err)
}
