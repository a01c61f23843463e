package main

import (
	"log"
	_ "time/tzdata"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"tarlatakip/config"
	"tarlatakip/database"
	"tarlatakip/pkg/geocode"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/store/repositoryImp"
	"tarlatakip/pkg/visitquery"
	"tarlatakip/router"

	// Auth + Health
	authCtrlImp "tarlatakip/pkg/auth/controllerImp"
	healthCtrlImp "tarlatakip/pkg/health/controllerImp"

	// Farmers, fields, visits, recommendations
	farmerCtrlImp "tarlatakip/pkg/farmer/controllerImp"
	farmerSvcImp "tarlatakip/pkg/farmer/serviceImp"
	fieldCtrlImp "tarlatakip/pkg/field/controllerImp"
	fieldSvcImp "tarlatakip/pkg/field/serviceImp"
	recCtrlImp "tarlatakip/pkg/recommendation/controllerImp"
	recSvcImp "tarlatakip/pkg/recommendation/serviceImp"
	visitCtrlImp "tarlatakip/pkg/visit/controllerImp"
	visitSvcImp "tarlatakip/pkg/visit/serviceImp"

	// Visit queries + geocoding
	geoCtrlImp "tarlatakip/pkg/geocode/controllerImp"
	queryCtrlImp "tarlatakip/pkg/visitquery/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	loc, _ := cfg.Location()

	// 2) DB (sqlite) + migrations
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	store := repositoryImp.New(db, repositoryImp.Rules{AllowCollectionGroup: cfg.AllowCollectionGroup})

	// 3) Geocoding (mock without an endpoint)
	var geoClient geocode.Client
	if cfg.NominatimURL != "" && cfg.NominatimURL != "mock" {
		geoClient = geocode.NewNominatim(cfg.NominatimURL, cfg.GeocodeUserAgent)
	} else {
		geoClient = geocode.NewMock()
	}
	geo := geocode.NewGuarded(geoClient)

	// 4) Services
	farmers := farmerSvcImp.NewFarmerService(store, store)
	fields := fieldSvcImp.NewFieldService(store, geo, logger.Named("field"))
	visits := visitSvcImp.NewVisitService(store, loc)
	recs := recSvcImp.NewRecommendationService(store)

	engine := visitquery.NewEngine(store,
		visitquery.WithEngineLogger(logger.Named("engine")),
		visitquery.WithBatchSize(cfg.FlatBatchSize),
		visitquery.WithFanout(cfg.ResolverParallelism),
	)
	resolver := visitquery.NewResolver(store, cfg.ResolverParallelism, logger.Named("resolver"))
	query := visitquery.NewService(engine, resolver, visitquery.NewExporter(loc), loc, logger.Named("visitquery"))

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())

	r := router.New(
		e,
		cfg.EnableAuthHeader,
		authCtrlImp.NewAuthController(),
		healthCtrlImp.NewHealthCtrl(db, cfg.AllowCollectionGroup),
		farmerCtrlImp.New(farmers, logger),
		fieldCtrlImp.New(fields, logger),
		visitCtrlImp.New(visits, logger),
		recCtrlImp.New(recs, logger),
		queryCtrlImp.New(query, logger),
		geoCtrlImp.New(geo, logger),
	)

	// 6) Start
	logger.Info("listening",
		zap.String("port", cfg.Port),
		zap.String("tz", cfg.Timezone),
		zap.Bool("collection_group", cfg.AllowCollectionGroup))
	if err := r.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
