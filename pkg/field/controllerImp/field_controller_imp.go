package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/field/controller"
	"tarlatakip/pkg/field/service"
	"tarlatakip/pkg/logging"
)

type FieldCtrl struct {
	s   service.FieldService
	log *zap.Logger
}

var _ controller.FieldController = (*FieldCtrl)(nil)

func New(s service.FieldService, log *zap.Logger) *FieldCtrl {
	return &FieldCtrl{s: s, log: logging.OrNop(log)}
}

func (h *FieldCtrl) Create(c echo.Context) error {
	var in service.FieldInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	f, err := h.s.CreateField(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), in)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *FieldCtrl) Get(c echo.Context) error {
	f, err := h.s.GetField(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId"))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FieldCtrl) List(c echo.Context) error {
	list, err := h.s.ListFields(c.Request().Context(), apierr.UID(c), c.Param("farmerId"))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *FieldCtrl) Update(c echo.Context) error {
	var p service.FieldPatch
	if err := c.Bind(&p); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	f, err := h.s.UpdateField(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId"), p)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FieldCtrl) Delete(c echo.Context) error {
	if err := h.s.DeleteField(c.Request().Context(), apierr.UID(c), c.Param("farmerId"), c.Param("fieldId")); err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
