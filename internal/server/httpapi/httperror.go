package httpapi

import (
	"errors"
	"net/http"
)

const (
	msgBadRequest     = "Bad Request"
	msgNotFound       = "Resource not found"
	msgInternalServer = "Internal Server Error"
	msgUnauthorized   = "Unauthorized"
	msgForbidden      = "Forbidden"
	msgConflict       = "Conflict"
)

// HTTPError carries an HTTP status code and a user-facing message alongside
// the underlying cause.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

// Error returns the user-facing message.
func (he *HTTPError) Error() string {
	return he.Message
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (he *HTTPError) Unwrap() error {
	return he.cause
}

func defaultMessageIfEmpty(msg, defaultVal string) string {
	if msg == "" {
		return defaultVal
	}
	return msg
}

// NewHTTPError creates an HTTPError with a code and a user-facing message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{cause: errors.New(message), Code: code, Message: message}
}

// NewHTTPErrorWrap creates an HTTPError carrying cause so it survives
// errors.Is checks while presenting message to the client.
func NewHTTPErrorWrap(code int, message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: code, Message: message}
}

func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, defaultMessageIfEmpty(message, msgBadRequest))
}

func ErrBadRequestWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusBadRequest, defaultMessageIfEmpty(message, msgBadRequest), cause)
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, defaultMessageIfEmpty(message, msgNotFound))
}

func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, defaultMessageIfEmpty(message, msgUnauthorized))
}

func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, defaultMessageIfEmpty(message, msgForbidden))
}

func ErrConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, defaultMessageIfEmpty(message, msgConflict))
}

func ErrInternalServer(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, defaultMessageIfEmpty(message, msgInternalServer))
}
