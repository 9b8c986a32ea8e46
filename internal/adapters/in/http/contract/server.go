package contract

import (
	"fmt"
	"net/http"

	"tracking/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Register a checkpoint for a unit, creating the unit on first contact
	// (POST /api/v1/checkpoints)
	RegisterCheckpoint(ctx echo.Context) error
	// Full checkpoint ledger and unit projection
	// (GET /api/v1/tracking/{trackingId})
	GetTrackingHistory(ctx echo.Context, trackingId string) error
	// Units currently in a given status, paginated in creation order
	// (GET /api/v1/shipments)
	ListShipments(ctx echo.Context, params ListShipmentsParams) error
	// Register a unit explicitly with its initial status
	// (POST /api/v1/units)
	CreateUnit(ctx echo.Context) error
	// Background job queues, retries, dead letters and worker liveness
	// (GET /api/v1/jobs/status)
	GetJobsStatus(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// RegisterCheckpoint converts echo context to params.
func (w *ServerInterfaceWrapper) RegisterCheckpoint(ctx echo.Context) error {
	ctx.Set(ApiKeyAuthScopes, []string{})

	return w.Handler.RegisterCheckpoint(ctx)
}

// GetTrackingHistory converts echo context to params.
func (w *ServerInterfaceWrapper) GetTrackingHistory(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "trackingId" -------------
	var trackingId string

	err = runtime.BindStyledParameterWithOptions("simple", "trackingId", ctx.Param("trackingId"), &trackingId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter trackingId: %s", err))
	}

	ctx.Set(ApiKeyAuthScopes, []string{})

	return w.Handler.GetTrackingHistory(ctx, trackingId)
}

// ListShipments converts echo context to params.
func (w *ServerInterfaceWrapper) ListShipments(ctx echo.Context) error {
	var err error

	ctx.Set(ApiKeyAuthScopes, []string{})

	var params ListShipmentsParams
	// ------------- Required query parameter "status" -------------
	err = runtime.BindQueryParameter("form", true, true, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	// ------------- Optional query parameter "limit" -------------
	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// ------------- Optional query parameter "offset" -------------
	err = runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	return w.Handler.ListShipments(ctx, params)
}

// CreateUnit converts echo context to params.
func (w *ServerInterfaceWrapper) CreateUnit(ctx echo.Context) error {
	ctx.Set(ApiKeyAuthScopes, []string{})

	return w.Handler.CreateUnit(ctx)
}

// GetJobsStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetJobsStatus(ctx echo.Context) error {
	ctx.Set(ApiKeyAuthScopes, []string{})

	return w.Handler.GetJobsStatus(ctx)
}

// EchoRouter is implemented by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers, prefixing every path
// with baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/checkpoints", wrapper.RegisterCheckpoint)
	router.GET(baseURL+"/api/v1/jobs/status", wrapper.GetJobsStatus)
	router.GET(baseURL+"/api/v1/shipments", wrapper.ListShipments)
	router.GET(baseURL+"/api/v1/tracking/:trackingId", wrapper.GetTrackingHistory)
	router.POST(baseURL+"/api/v1/units", wrapper.CreateUnit)
}

// GetSwagger returns the parsed OpenAPI document embedded in the binary.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	swagger, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("error loading openapi document: %w", err)
	}

	return swagger, nil
}
