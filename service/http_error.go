package service

import (
	"errors"
	"fmt"
	"net/http"

	"myregistry/helpers"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// ErrResponse is the body of every failed registry request.
type ErrResponse struct {
	Error *MyError `json:"error,omitempty"`
}

// HTTPErrorHandler renders handler errors as ErrResponse.
type HTTPErrorHandler struct {
	logger log.Logger
}

// RegisterErrorHandler installs HTTPErrorHandler on e.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger).Handle
}

// NewHTTPErrorHandler creates the handler. Panics on nil logger.
func NewHTTPErrorHandler(logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		logger: log.With(helpers.NilPanic(logger, "service.http_error.go: logger is required"), "component", "http_error_handler"),
	}
}

// Handle is an echo.HTTPErrorHandler.
func (h *HTTPErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, myErr := classify(err)

	logger := level.Debug(h.logger)
	if status >= http.StatusInternalServerError {
		logger = level.Error(h.logger)
	}
	logger.Log(
		"msg", "HTTP request error",
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"replication", helpers.IsReplication(c.Request()),
		"status", status,
		"err", err,
	)

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrResponse{Error: myErr})
}

// classify maps err to a status and the MyError shown to the caller. echo errors keep their status;
// OpenAPI request validation failures are always bad_parameter.
func classify(err error) (int, *MyError) {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		if myErr := ToMyError(err); myErr != nil {
			return myErr.StatusCode(), myErr
		}
		return http.StatusInternalServerError, NewMyError(ErrInternalServerError, "an internal server error has occurred", err)
	}

	if inner, ok := he.Internal.(*echo.HTTPError); ok {
		he = inner
	}
	code := codeForStatus(he.Code)
	var requestErr *openapi3filter.RequestError
	if errors.As(he.Internal, &requestErr) {
		code = ErrBadParameter
	}

	message, ok := he.Message.(string)
	if !ok {
		message = fmt.Sprint(he.Message)
	}
	return he.Code, NewMyError(code, message, err)
}

func codeForStatus(status int) string {
	for code, s := range statusByCode {
		if s == status && code != ErrInternalServerError {
			return code
		}
	}
	return ErrInternalServerError
}
