package http

import (
	"context"
	"net/http"
	"time"

	"tracking/internal/adapters/in/http/contract"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RegisterCheckpointHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterCheckpointCommand) (commands.RegisterCheckpointResult, error)
}

type CreateUnitHandler interface {
	Handle(ctx context.Context, cmd commands.CreateUnitCommand) (commands.CreateUnitResult, error)
}

type GetTrackingHistoryHandler interface {
	Handle(
		ctx context.Context,
		query queries.GetTrackingHistoryQuery,
	) (queries.GetTrackingHistoryQueryResponse, error)
}

type ListUnitsByStatusHandler interface {
	Handle(
		ctx context.Context,
		query queries.ListUnitsByStatusQuery,
	) (queries.ListUnitsByStatusQueryResponse, error)
}

var _ contract.ServerInterface = (*Server)(nil)

// Server implements contract.ServerInterface on top of the command and query
// handlers. It turns request bodies into commands, maps errors to the common
// error body and counts accepted checkpoints.
type Server struct {
	// Command handlers
	registerCheckpointHandler RegisterCheckpointHandler
	createUnitHandler         CreateUnitHandler

	// Query handlers
	getTrackingHistoryHandler GetTrackingHistoryHandler
	listUnitsByStatusHandler  ListUnitsByStatusHandler

	jobs    JobMonitor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	registerCheckpointHandler RegisterCheckpointHandler,
	createUnitHandler CreateUnitHandler,
	getTrackingHistoryHandler GetTrackingHistoryHandler,
	listUnitsByStatusHandler ListUnitsByStatusHandler,
	jobs JobMonitor,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Server {
	return &Server{
		registerCheckpointHandler: registerCheckpointHandler,
		createUnitHandler:         createUnitHandler,
		getTrackingHistoryHandler: getTrackingHistoryHandler,
		listUnitsByStatusHandler:  listUnitsByStatusHandler,
		jobs:                      jobs,
		metrics:                   m,
		logger:                    logger.With(zap.String("component", "http")),
	}
}

// RegisterCheckpoint handles POST /api/v1/checkpoints.
func (s *Server) RegisterCheckpoint(ctx echo.Context) error {
	var body contract.RegisterCheckpointJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return respondError(ctx, s.logger, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	var timestamp time.Time
	if body.Timestamp != nil {
		timestamp = *body.Timestamp
	}

	cmd, err := commands.NewRegisterCheckpointCommand(
		body.TrackingId,
		string(body.Status),
		timestamp,
		unit.RecordDetails{
			Location:   deref(body.Location),
			Notes:      deref(body.Notes),
			OperatorID: deref(body.OperatorId),
		},
	)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	result, err := s.registerCheckpointHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	s.metrics.CheckpointsRegistered.WithLabelValues(result.Checkpoint.Status().String()).Inc()
	if result.UnitCreated {
		s.metrics.UnitsAutoCreated.Inc()
	}

	return ctx.JSON(http.StatusCreated, contract.RegisterCheckpointResponse{
		Checkpoint: toCheckpoint(result.Checkpoint),
		Unit:       toUnit(result.Unit),
	})
}

// CreateUnit handles POST /api/v1/units.
func (s *Server) CreateUnit(ctx echo.Context) error {
	var body contract.CreateUnitJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return respondError(ctx, s.logger, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	var initialStatus string
	if body.InitialStatus != nil {
		initialStatus = string(*body.InitialStatus)
	}

	cmd, err := commands.NewCreateUnitCommand(body.TrackingId, initialStatus)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	result, err := s.createUnitHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusCreated, contract.CreateUnitResponse{
		Unit:              toUnit(result.Unit),
		InitialCheckpoint: toCheckpoint(result.InitialCheckpoint),
	})
}

// GetTrackingHistory handles GET /api/v1/tracking/{trackingId}.
func (s *Server) GetTrackingHistory(ctx echo.Context, trackingID string) error {
	query, err := queries.NewGetTrackingHistoryQuery(trackingID)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	history, err := s.getTrackingHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, contract.TrackingHistoryResponse{
		Unit:             toUnit(history.Unit),
		Checkpoints:      toCheckpoints(history.Checkpoints),
		TotalCheckpoints: history.TotalCheckpoints,
	})
}

// ListShipments handles GET /api/v1/shipments.
func (s *Server) ListShipments(ctx echo.Context, params contract.ListShipmentsParams) error {
	limit := queries.DefaultPageLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	offset := 0
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewListUnitsByStatusQuery(string(params.Status), limit, offset)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	page, err := s.listUnitsByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	units := make([]contract.Unit, len(page.Units))
	for i, u := range page.Units {
		units[i] = toUnit(u)
	}

	return ctx.JSON(http.StatusOK, contract.ListShipmentsResponse{
		Units: units,
		Pagination: contract.Pagination{
			Total:   page.Pagination.Total,
			Limit:   page.Pagination.Limit,
			Offset:  page.Pagination.Offset,
			HasMore: page.Pagination.HasMore,
		},
		Status: contract.UnitStatus(page.Status.String()),
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
