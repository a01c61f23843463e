package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/auth/controller"
	"tarlatakip/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// DevLogin switches the development account to ?uid=.
func (h *authCtrl) DevLogin(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = middleware.DefaultDevUID
	}
	c.SetCookie(&http.Cookie{Name: middleware.UIDCookie, Value: uid, Path: "/"})
	return c.JSON(http.StatusOK, echo.Map{"uid": uid})
}

// DevLogout forgets the development account cookie.
func (h *authCtrl) DevLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: middleware.UIDCookie, Value: "", Path: "/", MaxAge: -1})
	return c.NoContent(http.StatusNoContent)
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"uid": apierr.UID(c)})
}
