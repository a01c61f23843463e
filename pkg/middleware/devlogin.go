package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UIDCookie holds the account id between requests in development.
const UIDCookie = "TT_UID"

// DefaultDevUID is the account used when a development request names none.
const DefaultDevUID = "dev-user"

// DevLogin takes the account id from the UIDCookie cookie or a ?uid= query,
// falling back to DefaultDevUID, and remembers it in the cookie.
func DevLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := ""
			if ck, err := c.Cookie(UIDCookie); err == nil {
				uid = ck.Value
			}
			if q := c.QueryParam("uid"); q != "" && q != uid {
				uid = q
				c.SetCookie(&http.Cookie{Name: UIDCookie, Value: uid, Path: "/"})
			}
			if uid == "" {
				uid = DefaultDevUID
				c.SetCookie(&http.Cookie{Name: UIDCookie, Value: uid, Path: "/"})
			}
			c.Set("uid", uid)
			return next(c)
		}
	}
}
