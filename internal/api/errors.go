package api

import "errors"

// Error is a non-2xx API response. Message is the server-supplied error
// string when present, otherwise a route-specific default.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsAPIError reports whether err carries a server response, as opposed to a
// transport failure.
func IsAPIError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

var (
	ErrInvalidName     = errors.New("name must not be empty")
	ErrInvalidEmail    = errors.New("email must not be empty")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")
)
