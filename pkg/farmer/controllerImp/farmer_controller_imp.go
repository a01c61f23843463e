package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/farmer/controller"
	"tarlatakip/pkg/farmer/service"
	"tarlatakip/pkg/logging"
)

type farmerCtrl struct {
	s   service.FarmerService
	log *zap.Logger
}

func New(s service.FarmerService, log *zap.Logger) controller.FarmerController {
	return &farmerCtrl{s: s, log: logging.OrNop(log)}
}

func (h *farmerCtrl) Create(c echo.Context) error {
	var in service.FarmerInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	f, err := h.s.Create(c.Request().Context(), apierr.UID(c), in)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *farmerCtrl) Get(c echo.Context) error {
	f, err := h.s.Get(c.Request().Context(), apierr.UID(c), c.Param("farmerId"))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *farmerCtrl) List(c echo.Context) error {
	list, err := h.s.List(c.Request().Context(), apierr.UID(c))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *farmerCtrl) Update(c echo.Context) error {
	var p service.FarmerPatch
	if err := c.Bind(&p); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	f, err := h.s.Update(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), p)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *farmerCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), apierr.UID(c), c.Param("farmerId")); err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
