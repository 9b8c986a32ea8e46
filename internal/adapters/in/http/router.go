package http

import (
	"fmt"

	"tracking/internal/adapters/in/http/contract"
	"tracking/internal/adapters/in/http/swaggerdoc"
	"tracking/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// DefaultBodyLimit caps request bodies.
const DefaultBodyLimit = "10M"

type RouterConfig struct {
	APIKey    string
	RateLimit RateLimitConfig
	BodyLimit string
}

// NewRouter assembles the echo instance: middleware chain, health probes,
// /metrics, /swagger/* and the API routes.
//
// Middleware order, outermost first: request id, metrics, request logging,
// panic recovery, secure headers, body limit, API key, rate limit, OpenAPI
// request validation.
func NewRouter(
	server contract.ServerInterface,
	health *HealthHandler,
	limiter RateLimiter,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	config RouterConfig,
	logger *zap.Logger,
) (*echo.Echo, error) {
	doc, err := contract.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err = swaggerdoc.Register(doc); err != nil {
		return nil, err
	}

	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	bodyLimit := config.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(Metrics(m))
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(APIKeyAuth(config.APIKey))
	e.Use(RateLimit(limiter, config.RateLimit, m, logger))
	e.Use(validator)

	health.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	contract.RegisterHandlers(e, server)

	return e, nil
}
