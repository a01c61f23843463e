// Package apierr maps service errors onto HTTP responses of the form
// {"error": "..."}.
package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/pkg/latest"
	"tarlatakip/pkg/store/repository"
	"tarlatakip/pkg/visitquery"
)

// Status picks the HTTP status for err.
func Status(err error) int {
	if errors.Is(err, visitquery.ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, latest.ErrStale) {
		return http.StatusConflict
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch repository.CodeOf(err) {
	case repository.CodeInvalidArgument:
		return http.StatusBadRequest
	case repository.CodePermissionDenied:
		return http.StatusForbidden
	case repository.CodeNotFound:
		return http.StatusNotFound
	case repository.CodeFailedPrecondition:
		return http.StatusConflict
	case repository.CodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Respond writes err as JSON. Server-side failures are logged.
func Respond(c echo.Context, log *zap.Logger, err error) error {
	status := Status(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// BadRequest answers 400 with msg.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// UID returns the account id set by the identity middleware.
func UID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
