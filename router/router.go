package router

import (
	"github.com/labstack/echo/v4"

	"tarlatakip/pkg/middleware"
)

type crud interface {
	Create(echo.Context) error
	List(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

func New(
	e *echo.Echo,
	enableAuthHeader bool,
	authCtrl interface {
		DevLogin(echo.Context) error
		DevLogout(echo.Context) error
		WhoAmI(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
	farmerCtrl interface {
		crud
		Get(echo.Context) error
	},
	fieldCtrl interface {
		crud
		Get(echo.Context) error
	},
	visitCtrl crud,
	recCtrl interface {
		crud
		Kinds(echo.Context) error
	},
	queryCtrl interface {
		Browse(echo.Context) error
		Export(echo.Context) error
		Feed(echo.Context) error
		Recent(echo.Context) error
	},
	geoCtrl interface {
		Reverse(echo.Context) error
		Search(echo.Context) error
	},
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	api := e.Group("")
	if enableAuthHeader {
		api.Use(middleware.RequireUID(true))
	} else {
		api.Use(middleware.DevLogin())
		api.GET("/devlogin", authCtrl.DevLogin)
		api.GET("/devlogout", authCtrl.DevLogout)
	}
	api.GET("/whoami", authCtrl.WhoAmI)

	api.GET("/farmers", farmerCtrl.List)
	api.POST("/farmers", farmerCtrl.Create)
	api.GET("/farmers/:farmerId", farmerCtrl.Get)
	api.PATCH("/farmers/:farmerId", farmerCtrl.Update)
	api.DELETE("/farmers/:farmerId", farmerCtrl.Delete)

	f := api.Group("/farmers/:farmerId/fields")
	f.GET("", fieldCtrl.List)
	f.POST("", fieldCtrl.Create)
	f.GET("/:fieldId", fieldCtrl.Get)
	f.PATCH("/:fieldId", fieldCtrl.Update)
	f.DELETE("/:fieldId", fieldCtrl.Delete)

	f.GET("/:fieldId/visits", visitCtrl.List)
	f.POST("/:fieldId/visits", visitCtrl.Create)
	f.PATCH("/:fieldId/visits/:visitId", visitCtrl.Update)
	f.DELETE("/:fieldId/visits/:visitId", visitCtrl.Delete)

	api.GET("/recommendations", recCtrl.List)
	api.POST("/recommendations", recCtrl.Create)
	api.GET("/recommendations/kinds", recCtrl.Kinds)
	api.PATCH("/recommendations/:id", recCtrl.Update)
	api.DELETE("/recommendations/:id", recCtrl.Delete)

	api.GET("/visits", queryCtrl.Browse)
	api.GET("/visits/export", queryCtrl.Export)
	api.GET("/visits/feed", queryCtrl.Feed)
	api.GET("/dashboard/recent", queryCtrl.Recent)

	api.GET("/geocode/reverse", geoCtrl.Reverse)
	api.GET("/geocode/search", geoCtrl.Search)
	return e
}
