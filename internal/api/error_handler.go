package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
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

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrSendNotAllowed),
		errors.Is(err, domain.ErrTypeNotAllowed),
		errors.Is(err, domain.ErrSelfNotification):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, domain.ErrValidationNotFound),
		errors.Is(err, domain.ErrTacheNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, domain.ErrDossierNotFound),
		errors.Is(err, domain.ErrCreancierNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrChefUnresolved):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrValidationConflict),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrNoAgents):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrDirectoryUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
