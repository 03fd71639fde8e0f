package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/appointment-scheduler/internal/api/handler"
	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse lists every failing field of a rejected request.
type validationErrorResponse struct {
	Errors []string `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders request validation failures as {"errors": ["field : message"]}.
//   - Maps domain errors to an HTTP status by kind.
//   - Logs operational causes without leaking them to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *handler.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, validationErrorResponse{Errors: ve.Messages})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		// Unexpected error: log the real cause, return a generic message.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		return http.StatusInternalServerError, "internal server error"
	}

	switch de.Kind {
	case domain.KindNotFound:
		return http.StatusNotFound, de.Message
	case domain.KindForbidden:
		return http.StatusForbidden, de.Message
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, de.Message
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest, de.Message
	}

	// Operational failures keep the client-safe message; the cause goes to logs.
	log.Error().
		Err(de.Err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg(de.Message)
	return http.StatusBadRequest, de.Message
}
