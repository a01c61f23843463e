package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UIDHeader carries the account id set by the fronting auth proxy.
const UIDHeader = "X-Account-Uid"

// RequireUID takes the account id from UIDHeader and answers 401 without
// it. When enabled is false it passes through, leaving DevLogin in charge.
func RequireUID(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			uid := c.Request().Header.Get(UIDHeader)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account"})
			}
			c.Set("uid", uid)
			return next(c)
		}
	}
}
