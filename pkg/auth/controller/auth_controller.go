package controller

import "github.com/labstack/echo/v4"

// AuthController serves the development identity endpoints.
type AuthController interface {
	DevLogin(c echo.Context) error
	DevLogout(c echo.Context) error
	WhoAmI(c echo.Context) error
}
