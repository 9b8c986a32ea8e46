package http

import (
	"errors"
	"net/http"
	"strings"

	"tracking/internal/adapters/in/http/contract"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error codes carried in the "error" field of every error body.
const (
	CodeValidation        = "validation_error"
	CodeBusiness          = "business_error"
	CodeNotFound          = "not_found"
	CodeAlreadyExists     = "already_exists"
	CodeConflict          = "conflict"
	CodeInvalidAPIKey     = "invalid_api_key"
	CodeRateLimitExceeded = "rate_limit_exceeded"
	CodeRequestTooLarge   = "request_too_large"
	CodeInternal          = "internal_error"
)

const internalErrorMessage = "An unexpected error occurred"

// classify maps an application error to its HTTP status and error code.
// Unknown errors are internal.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, unit.ErrInvalidTransition),
		errors.Is(err, unit.ErrOutOfOrderTimestamp):
		return http.StatusBadRequest, CodeBusiness
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, CodeValidation
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func errorBody(code, message string) contract.Error {
	return contract.Error{Error: code, Message: message}
}

// respondError writes the error body for err. Domain errors are logged at
// Warn and echoed back; anything else is logged at Error and hidden behind a
// generic message.
func respondError(ctx echo.Context, logger *zap.Logger, err error) error {
	status, code := classify(err)

	fields := []zap.Field{
		zap.String("method", ctx.Request().Method),
		zap.String("path", ctx.Path()),
		zap.Int("status", status),
		zap.Error(err),
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", fields...)
		return ctx.JSON(status, errorBody(code, internalErrorMessage))
	}

	logger.Warn("request rejected", fields...)
	return ctx.JSON(status, errorBody(code, err.Error()))
}

// NewHTTPErrorHandler renders errors escaping the handlers, including echo's
// own (404 routes, 413 body limit, parameter binding), in the common error body.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			_ = respondError(ctx, logger, err)
			return
		}

		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}

		var body contract.Error
		switch he.Code {
		case http.StatusBadRequest:
			body = errorBody(CodeValidation, message)
		case http.StatusUnauthorized:
			body = errorBody(CodeInvalidAPIKey, message)
		case http.StatusNotFound:
			body = errorBody(CodeNotFound, message)
		case http.StatusRequestEntityTooLarge:
			body = errorBody(CodeRequestTooLarge, message)
		case http.StatusTooManyRequests:
			body = errorBody(CodeRateLimitExceeded, message)
		default:
			if he.Code >= http.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
				body = errorBody(CodeInternal, internalErrorMessage)
			} else {
				body = errorBody(statusCode(he.Code), message)
			}
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(he.Code)
		} else {
			err = ctx.JSON(he.Code, body)
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}

// statusCode turns a status text such as "Method Not Allowed" into
// "method_not_allowed".
func statusCode(status int) string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}
