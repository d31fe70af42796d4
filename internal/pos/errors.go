package pos

import (
	"errors"
	"fmt"
)

var (
	ErrNoStaySelected  = errors.New("no stay selected")
	ErrStayClosed      = errors.New("stay is closed")
	ErrStayNotClosed   = errors.New("stay is not closed")
	ErrPendingChanges  = errors.New("cart has unsaved changes")
	ErrRequestInFlight = errors.New("a request is already in flight")
	ErrInvalidIndex    = errors.New("no such cart line")
	ErrUnknownExtra    = errors.New("extra is not in the catalog")
	ErrInvalidQuantity = errors.New("quantity out of range")
)

// APIError is a non-2xx answer of the REST server. Message carries the
// server's "error" field when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.StatusCode)
	}
	return fmt.Sprintf("server answered %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}
