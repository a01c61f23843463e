package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/entities"
	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/recommendation/controller"
	"tarlatakip/pkg/recommendation/service"
)

type recommendationCtrl struct {
	s   service.RecommendationService
	log *zap.Logger
}

func New(s service.RecommendationService, log *zap.Logger) controller.RecommendationController {
	return &recommendationCtrl{s: s, log: logging.OrNop(log)}
}

func (h *recommendationCtrl) Create(c echo.Context) error {
	var in service.RecommendationInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	rec, err := h.s.Create(c.Request().Context(), apierr.UID(c), in)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *recommendationCtrl) List(c echo.Context) error {
	list, err := h.s.List(c.Request().Context(), apierr.UID(c))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *recommendationCtrl) Update(c echo.Context) error {
	var p service.RecommendationPatch
	if err := c.Bind(&p); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	rec, err := h.s.Update(c.Request().Context(), apierr.UID(c), c.Param("id"), p)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *recommendationCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), apierr.UID(c), c.Param("id")); err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Kinds lists the kind catalog with each kind's sub-kinds.
func (h *recommendationCtrl) Kinds(c echo.Context) error {
	return c.JSON(http.StatusOK, entities.SubKinds)
}
