package notification

import "errors"

// Service errors. These cross module boundaries as message strings, so
// the API layer matches on the text.
var (
	ErrNotFound        = errors.New("notification not found")
	ErrNotOwner        = errors.New("not authorized")
	ErrMessageRequired = errors.New("notification message is required")
	ErrUserRequired    = errors.New("notification user is required")
)
