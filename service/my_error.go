package service

import (
	"errors"
	"net/http"
)

// Error codes rendered in ErrResponse.
const (
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means no lease exists for the application or instance.
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means a path, query or body value failed validation.
	ErrBadParameter = "bad_parameter"
	// ErrConflict means the stored record is newer than the one carried by the request.
	ErrConflict = "conflict"
	// ErrTooManyRequests means the caller exceeded the fetch rate limit.
	ErrTooManyRequests = "too_many_requests"
)

var statusByCode = map[string]int{
	ErrBadParameter:        http.StatusBadRequest,
	ErrEntityNotFound:      http.StatusNotFound,
	ErrConflict:            http.StatusConflict,
	ErrTooManyRequests:     http.StatusTooManyRequests,
	ErrInternalServerError: http.StatusInternalServerError,
}

// MyError is the error returned by registry components and rendered by HTTPErrorHandler.
type MyError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	// Inner is logged but never shown to API consumers.
	Inner error `json:"-"`
}

// NewMyError creates a new MyError.
func NewMyError(code string, message string, inner error) *MyError {
	return &MyError{Code: code, Message: message, Inner: inner}
}

// keepOrNew returns inner unchanged when it already is a MyError, so the first classification wins
// as the error travels up from adapters.
func keepOrNew(code, message string, inner error) *MyError {
	if known := ToMyError(inner); known != nil {
		return known
	}
	return NewMyError(code, message, inner)
}

func NewInternalServerError(message string, inner error) *MyError {
	return keepOrNew(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *MyError {
	return keepOrNew(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *MyError {
	return keepOrNew(ErrBadParameter, message, inner)
}

func NewConflictError(message string, inner error) *MyError {
	return keepOrNew(ErrConflict, message, inner)
}

func NewTooManyRequestsError(message string) *MyError {
	return NewMyError(ErrTooManyRequests, message, nil)
}

func (e MyError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Inner != nil {
		msg += ": " + e.Inner.Error()
	}
	return msg
}

func (e MyError) Unwrap() error {
	return e.Inner
}

// StatusCode returns the HTTP status of e.Code; unknown codes map to 500.
func (e MyError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ToMyError returns the first MyError in err's chain, or nil.
func ToMyError(err error) *MyError {
	var e *MyError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// ToMyErrorCode returns the code of the first MyError in err's chain, or "".
func ToMyErrorCode(err error) string {
	if e := ToMyError(err); e != nil {
		return e.Code
	}
	return ""
}

func IsMyError(err error, code string) bool {
	return ToMyErrorCode(err) == code && code != ""
}

func IsInternalServerError(err error) bool { return IsMyError(err, ErrInternalServerError) }

func IsEntityNotFoundError(err error) bool { return IsMyError(err, ErrEntityNotFound) }

func IsBadParameterError(err error) bool { return IsMyError(err, ErrBadParameter) }

func IsConflictError(err error) bool { return IsMyError(err, ErrConflict) }
