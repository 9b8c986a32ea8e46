package http

import (
	"context"
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tracking/internal/adapters/in/http/contract"
	"tracking/internal/adapters/out/redis"
	"tracking/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "X-API-Key"

const apiPathPrefix = "/api/"

func isAPIRoute(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Path(), apiPathPrefix)
}

// APIKeyAuth rejects API requests whose X-API-Key header does not match key.
// Health, metrics and swagger routes are not protected.
func APIKeyAuth(key string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Skipper:   func(ctx echo.Context) bool { return !isAPIRoute(ctx) },
		KeyLookup: "header:" + APIKeyHeader,
		Validator: func(candidate string, _ echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1, nil
		},
		ErrorHandler: func(_ error, ctx echo.Context) error {
			return ctx.JSON(http.StatusUnauthorized, errorBody(CodeInvalidAPIKey, "Missing or invalid API key"))
		},
	})
}

// RateLimiter is satisfied by redis.SlidingWindowLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redis.RateLimitResult, error)
}

// RateLimitConfig maps echo route paths to their request budget per Window.
// Routes without an entry are not limited.
type RateLimitConfig struct {
	Window time.Duration
	Limits map[string]int
}

// RateLimit enforces per route and client IP budgets. When the limiter
// itself fails the request is let through.
func RateLimit(limiter RateLimiter, config RateLimitConfig, m *metrics.Metrics, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			route := ctx.Path()
			limit, ok := config.Limits[route]
			if !ok {
				return next(ctx)
			}

			ip := ctx.RealIP()
			result, err := limiter.Allow(ctx.Request().Context(), route+":"+ip, limit, config.Window)
			if err != nil {
				logger.Error("rate limiter unavailable, request allowed",
					zap.String("path", route),
					zap.String("ip", ip),
					zap.Error(err),
				)
				return next(ctx)
			}

			header := ctx.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				m.RateLimitExceeded.Inc()
				logger.Warn("rate limit exceeded",
					zap.String("ip", ip),
					zap.String("method", ctx.Request().Method),
					zap.String("path", route),
				)

				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				header.Set(echo.HeaderRetryAfter, strconv.Itoa(retryAfter))
				return ctx.JSON(http.StatusTooManyRequests, errorBody(CodeRateLimitExceeded, "Rate limit exceeded, try again later"))
			}

			return next(ctx)
		}
	}
}

// Metrics records request count and latency labelled by the route pattern,
// so path parameters do not blow up label cardinality.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			if err := next(ctx); err != nil {
				ctx.Error(err)
			}

			path := ctx.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(ctx.Response().Status)
			method := ctx.Request().Method

			m.HTTPRequests.WithLabelValues(method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}

			if v.Error != nil {
				logger.Error("http request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("http request", fields...)
			return nil
		},
	})
}

// OpenAPIValidator checks every request described by doc against its
// parameter and body schemas. Requests for routes outside doc pass through.
// Authentication is enforced by APIKeyAuth, not here.
func OpenAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, contract.Error{
					Error:   CodeValidation,
					Message: validationMessage(err),
				})
			}

			return next(ctx)
		}
	}, nil
}

// validationMessage keeps the first line of a kin-openapi error; the rest is
// a schema dump.
func validationMessage(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
