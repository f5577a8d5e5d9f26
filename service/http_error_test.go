package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"myregistry/helpers"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "my error",
			err:             NewBadParameterError("invalid status", nil),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    ErrBadParameter,
			expectedMessage: "invalid status",
		},
		{
			name:           "wrapped my error",
			err:            fmt.Errorf("renew: %w", NewConflictError("newer copy stored", nil)),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrConflict,
		},
		{
			name:           "rate limited",
			err:            NewTooManyRequestsError("fetch limit"),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   ErrTooManyRequests,
		},
		{
			name:           "plain error",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrInternalServerError,
		},
		{
			name:            "echo not found",
			err:             echo.ErrNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedCode:    ErrEntityNotFound,
			expectedMessage: "Not Found",
		},
		{
			name:           "echo method not allowed",
			err:            echo.ErrMethodNotAllowed,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   ErrInternalServerError,
		},
		{
			name:           "openapi request error",
			err:            echo.NewHTTPError(http.StatusUnprocessableEntity, "request body has an error").SetInternal(&openapi3filter.RequestError{Err: assert.AnError}),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   ErrBadParameter,
		},
		{
			name:           "nested echo error",
			err:            echo.NewHTTPError(http.StatusInternalServerError, "outer").SetInternal(echo.NewHTTPError(http.StatusBadRequest, "inner")),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrBadParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/eureka/v2/apps/", nil), rec)

			NewHTTPErrorHandler(log.NewNopLogger()).Handle(tt.err, c)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body ErrResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.expectedCode, body.Error.Code)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, body.Error.Message)
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/eureka/v2/apps/orders", nil)
	helpers.SetReplication(req, "node-b")

	NewHTTPErrorHandler(log.NewNopLogger()).Handle(NewEntityNotFoundError("no such app", nil), e.NewContext(req, rec))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.NoContent(http.StatusNoContent))

	NewHTTPErrorHandler(log.NewNopLogger()).Handle(assert.AnError, c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegisterErrorHandler(t *testing.T) {
	assert.Panics(t, func() { NewHTTPErrorHandler(nil) })

	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	e.GET("/fail", func(echo.Context) error { return NewConflictError("newer copy stored", nil) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
