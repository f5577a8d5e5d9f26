package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"myregistry/helpers"
	"myregistry/service"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// FetchRateLimiter throttles registry fetches (GET of the full and delta snapshots) from clients.
// Replication traffic and every other endpoint pass through.
func FetchRateLimiter(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ectx echo.Context) error {
			req := ectx.Request()
			if limiter == nil || req.Method != http.MethodGet || helpers.IsReplication(req) || !isFetchPath(req.URL.Path) {
				return next(ectx)
			}
			if !limiter.Allow() {
				return service.NewTooManyRequestsError("registry fetch rate exceeded")
			}
			return next(ectx)
		}
	}
}

func isFetchPath(path string) bool {
	return strings.HasSuffix(path, "/apps/") || strings.HasSuffix(path, "/apps/delta")
}

// OpenAPIValidator validates requests against the OpenAPI document spec. Requests matching no documented
// operation (for example /metrics) pass through. Validation failures surface as echo errors wrapping an
// openapi3filter.RequestError, which the error handler maps to bad_parameter.
func OpenAPIValidator(ctx context.Context, spec []byte) (echo.MiddlewareFunc, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, service.NewInternalServerError("load openapi document", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, service.NewInternalServerError("validate openapi document", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, service.NewInternalServerError("build openapi router", err)
	}

	options := &openapi3filter.Options{
		MultiError:         false,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ectx echo.Context) error {
			req := ectx.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(ectx)
				}
				return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "request does not match the api").SetInternal(err)
			}
			return next(ectx)
		}
	}, nil
}

// UseDefaultMiddleware installs the stack every registry node runs: panic recovery, gzip request bodies
// (peer batches), gzip responses for clients that accept them, and OpenAPI request validation.
func UseDefaultMiddleware(e *echo.Echo, validator echo.MiddlewareFunc, limiter *rate.Limiter) {
	e.Use(middleware.Recover())
	e.Use(middleware.Decompress())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(ectx echo.Context) bool {
			return strings.HasPrefix(ectx.Request().URL.Path, "/metrics")
		},
	}))
	e.Use(FetchRateLimiter(limiter))
	if validator != nil {
		e.Use(validator)
	}
}
