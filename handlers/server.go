package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// BaseURL is the path prefix of every registry endpoint.
const BaseURL = "/eureka/v2"

// RenewLeaseParams are the query parameters of PUT apps/{app}/{id}.
type RenewLeaseParams struct {
	Status             *string
	OverriddenStatus   *string
	LastDirtyTimestamp *int64
}

// StatusUpdateParams are the query parameters of PUT apps/{app}/{id}/status.
type StatusUpdateParams struct {
	Value              string
	LastDirtyTimestamp *int64
}

// DeleteStatusOverrideParams are the query parameters of DELETE apps/{app}/{id}/status.
type DeleteStatusOverrideParams struct {
	Value              *string
	LastDirtyTimestamp *int64
}

// ASGStatusUpdateParams are the query parameters of PUT asg/{asgName}/status.
type ASGStatusUpdateParams struct {
	Value string
}

// GetApplicationsParams are the query parameters of the full and delta fetches.
type GetApplicationsParams struct {
	Regions *string
}

// ServerInterface is the registry HTTP surface described by api/registry.openapi.yaml.
type ServerInterface interface {
	// (GET /apps/)
	GetApplications(ctx echo.Context, params GetApplicationsParams) error
	// (GET /apps/delta)
	GetApplicationDeltas(ctx echo.Context, params GetApplicationsParams) error
	// (GET /apps/{app})
	GetApplication(ctx echo.Context, app string) error
	// (POST /apps/{app})
	RegisterInstance(ctx echo.Context, app string) error
	// (GET /apps/{app}/{id})
	GetInstance(ctx echo.Context, app string, id string) error
	// (PUT /apps/{app}/{id})
	RenewLease(ctx echo.Context, app string, id string, params RenewLeaseParams) error
	// (DELETE /apps/{app}/{id})
	CancelLease(ctx echo.Context, app string, id string) error
	// (PUT /apps/{app}/{id}/status)
	StatusUpdate(ctx echo.Context, app string, id string, params StatusUpdateParams) error
	// (DELETE /apps/{app}/{id}/status)
	DeleteStatusOverride(ctx echo.Context, app string, id string, params DeleteStatusOverrideParams) error
	// (PUT /asg/{asgName}/status)
	ASGStatusUpdate(ctx echo.Context, asgName string, params ASGStatusUpdateParams) error
	// (POST /peerreplication/batch/)
	BatchReplication(ctx echo.Context) error
	// (GET /peers)
	GetPeers(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// EchoRouter is the subset of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every route under BaseURL.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, BaseURL)
}

// RegisterHandlersWithBaseURL adds every route under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/apps/", w.GetApplications)
	router.GET(baseURL+"/apps/delta", w.GetApplicationDeltas)
	router.GET(baseURL+"/apps/:app", w.GetApplication)
	router.POST(baseURL+"/apps/:app", w.RegisterInstance)
	router.GET(baseURL+"/apps/:app/:id", w.GetInstance)
	router.PUT(baseURL+"/apps/:app/:id", w.RenewLease)
	router.DELETE(baseURL+"/apps/:app/:id", w.CancelLease)
	router.PUT(baseURL+"/apps/:app/:id/status", w.StatusUpdate)
	router.DELETE(baseURL+"/apps/:app/:id/status", w.DeleteStatusOverride)
	router.PUT(baseURL+"/asg/:asgName/status", w.ASGStatusUpdate)
	router.POST(baseURL+"/peerreplication/batch/", w.BatchReplication)
	router.GET(baseURL+"/peers", w.GetPeers)
}

// GetApplications converts echo context to params.
func (w *ServerInterfaceWrapper) GetApplications(ctx echo.Context) error {
	var params GetApplicationsParams
	if err := bindQuery(ctx, "regions", false, &params.Regions); err != nil {
		return err
	}
	return w.Handler.GetApplications(ctx, params)
}

// GetApplicationDeltas converts echo context to params.
func (w *ServerInterfaceWrapper) GetApplicationDeltas(ctx echo.Context) error {
	var params GetApplicationsParams
	if err := bindQuery(ctx, "regions", false, &params.Regions); err != nil {
		return err
	}
	return w.Handler.GetApplicationDeltas(ctx, params)
}

// GetApplication converts echo context to params.
func (w *ServerInterfaceWrapper) GetApplication(ctx echo.Context) error {
	var app string
	if err := bindPath(ctx, "app", &app); err != nil {
		return err
	}
	return w.Handler.GetApplication(ctx, app)
}

// RegisterInstance converts echo context to params.
func (w *ServerInterfaceWrapper) RegisterInstance(ctx echo.Context) error {
	var app string
	if err := bindPath(ctx, "app", &app); err != nil {
		return err
	}
	return w.Handler.RegisterInstance(ctx, app)
}

// GetInstance converts echo context to params.
func (w *ServerInterfaceWrapper) GetInstance(ctx echo.Context) error {
	app, id, err := bindInstancePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetInstance(ctx, app, id)
}

// RenewLease converts echo context to params.
func (w *ServerInterfaceWrapper) RenewLease(ctx echo.Context) error {
	app, id, err := bindInstancePath(ctx)
	if err != nil {
		return err
	}

	var params RenewLeaseParams
	if err := bindQuery(ctx, "status", false, &params.Status); err != nil {
		return err
	}
	if err := bindQuery(ctx, "overriddenstatus", false, &params.OverriddenStatus); err != nil {
		return err
	}
	if err := bindQuery(ctx, "lastDirtyTimestamp", false, &params.LastDirtyTimestamp); err != nil {
		return err
	}
	return w.Handler.RenewLease(ctx, app, id, params)
}

// CancelLease converts echo context to params.
func (w *ServerInterfaceWrapper) CancelLease(ctx echo.Context) error {
	app, id, err := bindInstancePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CancelLease(ctx, app, id)
}

// StatusUpdate converts echo context to params.
func (w *ServerInterfaceWrapper) StatusUpdate(ctx echo.Context) error {
	app, id, err := bindInstancePath(ctx)
	if err != nil {
		return err
	}

	var params StatusUpdateParams
	if err := bindQuery(ctx, "value", true, &params.Value); err != nil {
		return err
	}
	if err := bindQuery(ctx, "lastDirtyTimestamp", false, &params.LastDirtyTimestamp); err != nil {
		return err
	}
	return w.Handler.StatusUpdate(ctx, app, id, params)
}

// DeleteStatusOverride converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteStatusOverride(ctx echo.Context) error {
	app, id, err := bindInstancePath(ctx)
	if err != nil {
		return err
	}

	var params DeleteStatusOverrideParams
	if err := bindQuery(ctx, "value", false, &params.Value); err != nil {
		return err
	}
	if err := bindQuery(ctx, "lastDirtyTimestamp", false, &params.LastDirtyTimestamp); err != nil {
		return err
	}
	return w.Handler.DeleteStatusOverride(ctx, app, id, params)
}

// ASGStatusUpdate converts echo context to params.
func (w *ServerInterfaceWrapper) ASGStatusUpdate(ctx echo.Context) error {
	var asgName string
	if err := bindPath(ctx, "asgName", &asgName); err != nil {
		return err
	}

	var params ASGStatusUpdateParams
	if err := bindQuery(ctx, "value", true, &params.Value); err != nil {
		return err
	}
	return w.Handler.ASGStatusUpdate(ctx, asgName, params)
}

// BatchReplication converts echo context to params.
func (w *ServerInterfaceWrapper) BatchReplication(ctx echo.Context) error {
	return w.Handler.BatchReplication(ctx)
}

// GetPeers converts echo context to params.
func (w *ServerInterfaceWrapper) GetPeers(ctx echo.Context) error {
	return w.Handler.GetPeers(ctx)
}

func bindPath(ctx echo.Context, name string, dest interface{}) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func bindInstancePath(ctx echo.Context) (app string, id string, err error) {
	if err = bindPath(ctx, "app", &app); err != nil {
		return "", "", err
	}
	if err = bindPath(ctx, "id", &id); err != nil {
		return "", "", err
	}
	return app, id, nil
}

func bindQuery(ctx echo.Context, name string, required bool, dest interface{}) error {
	if err := runtime.BindQueryParameter("form", true, required, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}
