package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarlatakip/database"
	"tarlatakip/pkg/geocode"
	"tarlatakip/pkg/store/repositoryImp"
	"tarlatakip/pkg/visitquery"

	authCtrlImp "tarlatakip/pkg/auth/controllerImp"
	farmerCtrlImp "tarlatakip/pkg/farmer/controllerImp"
	farmerSvcImp "tarlatakip/pkg/farmer/serviceImp"
	fieldCtrlImp "tarlatakip/pkg/field/controllerImp"
	fieldSvcImp "tarlatakip/pkg/field/serviceImp"
	geoCtrlImp "tarlatakip/pkg/geocode/controllerImp"
	healthCtrlImp "tarlatakip/pkg/health/controllerImp"
	recCtrlImp "tarlatakip/pkg/recommendation/controllerImp"
	recSvcImp "tarlatakip/pkg/recommendation/serviceImp"
	visitCtrlImp "tarlatakip/pkg/visit/controllerImp"
	visitSvcImp "tarlatakip/pkg/visit/serviceImp"
	queryCtrlImp "tarlatakip/pkg/visitquery/controllerImp"
)

func newServer(t *testing.T, allowGroup, authHeader bool) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	st := repositoryImp.New(db, repositoryImp.Rules{AllowCollectionGroup: allowGroup})
	geo := geocode.NewGuarded(geocode.NewMock())
	query := visitquery.NewService(
		visitquery.NewEngine(st),
		visitquery.NewResolver(st, 4, nil),
		visitquery.NewExporter(time.UTC), time.UTC, nil)

	return New(echo.New(), authHeader,
		authCtrlImp.NewAuthController(),
		healthCtrlImp.NewHealthCtrl(db, allowGroup),
		farmerCtrlImp.New(farmerSvcImp.NewFarmerService(st, st), nil),
		fieldCtrlImp.New(fieldSvcImp.NewFieldService(st, geo, nil), nil),
		visitCtrlImp.New(visitSvcImp.NewVisitService(st, time.UTC), nil),
		recCtrlImp.New(recSvcImp.NewRecommendationService(st), nil),
		queryCtrlImp.New(query, nil),
		geoCtrlImp.New(geo, nil),
	)
}

func do(t *testing.T, e *echo.Echo, method, target, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestCreateAndBrowse(t *testing.T) {
	for _, allowGroup := range []bool{true, false} {
		e := newServer(t, allowGroup, false)

		var farmer struct{ ID string `json:"id"` }
		require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/farmers", `{"name":"Çiğdem Yılmaz","phone":"0532"}`, &farmer))

		var field struct{ ID string `json:"id"` }
		require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/farmers/"+farmer.ID+"/fields", `{"type":"Buğday","address":"Konya"}`, &field))

		visits := "/farmers/" + farmer.ID + "/fields/" + field.ID + "/visits"
		require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, visits, `{"date":"2024-05-01T08:00:00Z","note":"Pas"}`, nil))
		require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, visits, `{"date":"2024-05-03T08:00:00Z","note":"sulama"}`, nil))

		var st visitquery.State
		require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/visits?q=pas", "", &st))
		require.Len(t, st.Visits, 1)
		assert.Equal(t, "Pas", st.Visits[0].Note)
		assert.Equal(t, "Çiğdem Yılmaz", st.Visits[0].FarmerName())
		assert.Nil(t, st.Error)

		var recent struct{ Visits []visitquery.VisitView `json:"visits"` }
		require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/dashboard/recent", "", &recent))
		require.Len(t, recent.Visits, 2)
		assert.Equal(t, "sulama", recent.Visits[0].Note)

		var health map[string]any
		require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health", "", &health))

		assert.Equal(t, http.StatusConflict, do(t, e, http.MethodDelete, "/farmers/"+farmer.ID, "", nil))
	}
}

func TestBrowseRejectsBadDay(t *testing.T) {
	e := newServer(t, true, false)
	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/visits?from=2024-02-30", "", &body))
	assert.NotEmpty(t, body["error"])
}

func TestExportEmptyPage(t *testing.T) {
	e := newServer(t, true, false)
	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodGet, "/visits/export?format=csv", "", nil))
}

func TestFeedDeniedWithoutCollectionGroup(t *testing.T) {
	e := newServer(t, false, false)
	assert.Equal(t, http.StatusForbidden, do(t, e, http.MethodGet, "/visits/feed", "", nil))
}

func TestAuthHeaderMode(t *testing.T) {
	e := newServer(t, true, true)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/farmers", "", nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/devlogin", "", nil), "no dev login behind the auth proxy")
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health", "", nil))
}
