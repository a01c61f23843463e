package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type HealthCtrl struct {
	db *gorm.DB
	// flatQuery reports whether the store permits the collection-group
	// visit query; without it every load walks the hierarchy.
	flatQuery bool
}

func NewHealthCtrl(db *gorm.DB, flatQuery bool) *HealthCtrl {
	return &HealthCtrl{db: db, flatQuery: flatQuery}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db == nil {
		dbOK, dbErr = false, "gorm db is nil"
	} else if sqlDB, err := h.db.DB(); err != nil {
		dbOK, dbErr = false, "db.DB(): "+err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbOK, dbErr = false, "ping: "+err.Error()
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}
	strategy := "flat"
	if !h.flatQuery {
		strategy = "hierarchical"
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": sub{OK: dbOK, Err: dbErr},
		},
		"visit_strategy": strategy,
		"time":           time.Now().Format(time.RFC3339),
	})
}
