package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/visit/controller"
	"tarlatakip/pkg/visit/service"
)

type visitCtrl struct {
	s   service.VisitService
	log *zap.Logger
}

func New(s service.VisitService, log *zap.Logger) controller.VisitController {
	return &visitCtrl{s: s, log: logging.OrNop(log)}
}

func (h *visitCtrl) Create(c echo.Context) error {
	var in service.VisitInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	v, err := h.s.CreateVisit(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId"), in)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *visitCtrl) List(c echo.Context) error {
	list, err := h.s.ListVisits(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId"))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *visitCtrl) Update(c echo.Context) error {
	var p service.VisitPatch
	if err := c.Bind(&p); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	v, err := h.s.UpdateVisit(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId"), c.Param("visitId"), p)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *visitCtrl) Delete(c echo.Context) error {
	err := h.s.DeleteVisit(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId"), c.Param("visitId"))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
