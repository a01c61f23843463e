package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/geocode"
	"tarlatakip/pkg/latest"
	"tarlatakip/pkg/logging"
)

type GeocodeCtrl struct {
	g   *geocode.Guarded
	log *zap.Logger
}

func New(g *geocode.Guarded, log *zap.Logger) *GeocodeCtrl {
	return &GeocodeCtrl{g: g, log: logging.OrNop(log)}
}

// Reverse answers GET /geocode/reverse?lat&lng. A lookup superseded by a
// newer one from the same account answers 409.
func (h *GeocodeCtrl) Reverse(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if errLat != nil || errLng != nil {
		return apierr.BadRequest(c, "lat and lng are required")
	}
	addr, err := h.g.Reverse(c.Request().Context(), apierr.UID(c), lat, lng)
	switch {
	case errors.Is(err, latest.ErrStale):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, geocode.ErrNoResult):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case err != nil:
		h.log.Warn("reverse geocode failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"address": addr})
}

// Search answers GET /geocode/search?q.
func (h *GeocodeCtrl) Search(c echo.Context) error {
	places, err := h.g.Search(c.Request().Context(), c.QueryParam("q"))
	switch {
	case errors.Is(err, geocode.ErrNoResult):
		return c.JSON(http.StatusOK, []geocode.Place{})
	case err != nil:
		h.log.Warn("geocode search failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, places)
}
