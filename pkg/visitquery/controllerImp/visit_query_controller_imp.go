package controllerImp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarlatakip/pkg/apierr"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/store/repository"
	"tarlatakip/pkg/visitquery"
)

// QueryService is the part of visitquery.Service the handlers use.
type QueryService interface {
	Browse(ctx context.Context, ownerUID string, req visitquery.BrowseRequest) (*visitquery.State, error)
	ExportPage(ctx context.Context, ownerUID string, req visitquery.BrowseRequest, f visitquery.Format) (*visitquery.Artifact, error)
	Recent(ctx context.Context, ownerUID string) ([]visitquery.VisitView, error)
	Feed(ctx context.Context, ownerUID string, limit int, after *repository.Cursor) (*visitquery.FeedPage, error)
}

type VisitQueryCtrl struct {
	s   QueryService
	log *zap.Logger
}

func New(s QueryService, log *zap.Logger) *VisitQueryCtrl {
	return &VisitQueryCtrl{s: s, log: logging.OrNop(log)}
}

func browseRequest(c echo.Context) (visitquery.BrowseRequest, error) {
	req := visitquery.BrowseRequest{
		FarmerID: c.QueryParam("farmerId"),
		FieldID:  c.QueryParam("fieldId"),
		From:     c.QueryParam("from"),
		To:       c.QueryParam("to"),
		Query:    c.QueryParam("q"),
	}
	if p := c.QueryParam("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return req, fmt.Errorf("invalid page %q", p)
		}
		req.Page = n
	}
	return req, nil
}

// Browse answers GET /visits. A failed fetch is still answered with the
// visit state, emptied and carrying the message.
func (h *VisitQueryCtrl) Browse(c echo.Context) error {
	req, err := browseRequest(c)
	if err != nil {
		return apierr.BadRequest(c, err.Error())
	}
	st, err := h.s.Browse(c.Request().Context(), apierr.UID(c), req)
	var fe *visitquery.FetchError
	switch {
	case errors.As(err, &fe):
		status := apierr.Status(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("browse failed", zap.String("strategy", string(fe.Strategy)), zap.Error(err))
		}
		return c.JSON(status, visitquery.FailedState(err))
	case err != nil:
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Export answers GET /visits/export with the page Browse would show.
func (h *VisitQueryCtrl) Export(c echo.Context) error {
	req, err := browseRequest(c)
	if err != nil {
		return apierr.BadRequest(c, err.Error())
	}
	format, err := visitquery.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	a, err := h.s.ExportPage(c.Request().Context(), apierr.UID(c), req, format)
	if errors.Is(err, visitquery.ErrNothingToExport) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", a.Filename))
	return c.Blob(http.StatusOK, a.ContentType, a.Body)
}

// Recent answers GET /dashboard/recent.
func (h *VisitQueryCtrl) Recent(c echo.Context) error {
	views, err := h.s.Recent(c.Request().Context(), apierr.UID(c))
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"visits": views})
}

type feedResp struct {
	Visits     []visitquery.VisitView `json:"visits"`
	HasMore    bool                   `json:"has_more"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// Feed answers GET /visits/feed?limit&cursor.
func (h *VisitQueryCtrl) Feed(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apierr.BadRequest(c, "invalid limit")
		}
		limit = n
	}
	after, err := DecodeCursor(c.QueryParam("cursor"))
	if err != nil {
		return apierr.BadRequest(c, "invalid cursor")
	}
	page, err := h.s.Feed(c.Request().Context(), apierr.UID(c), limit, after)
	if err != nil {
		return apierr.Respond(c, h.log, err)
	}
	resp := feedResp{Visits: page.Visits, HasMore: page.HasMore}
	if page.Next != nil {
		resp.NextCursor = EncodeCursor(*page.Next)
	}
	return c.JSON(http.StatusOK, resp)
}

// EncodeCursor makes the opaque form handed to clients.
func EncodeCursor(cur repository.Cursor) string {
	b, _ := json.Marshal(cur)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor reverses EncodeCursor. An empty string is no cursor.
func DecodeCursor(s string) (*repository.Cursor, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var cur repository.Cursor
	if err := json.Unmarshal(b, &cur); err != nil {
		return nil, err
	}
	if cur.Path == "" {
		return nil, errors.New("cursor without path")
	}
	return &cur, nil
}
