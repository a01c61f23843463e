package main

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tarlatakip/config"
	"tarlatakip/database"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/store/repository"
	"tarlatakip/pkg/store/repositoryImp"
	"tarlatakip/pkg/visitquery"
)

var (
	dbPath  string
	uid     string
	tz      string
	noGroup bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "tarlactl",
	Short:        "Tarla takip command line",
	Long:         "Seed, browse and export farmer visits stored in a tarlatakip database.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "tarlatakip.db", "path to the sqlite database")
	rootCmd.PersistentFlags().StringVar(&uid, "uid", "dev-user", "account the commands act for")
	rootCmd.PersistentFlags().StringVar(&tz, "tz", "Europe/Istanbul", "zone for day bounds and displayed dates")
	rootCmd.PersistentFlags().BoolVar(&noGroup, "no-collection-group", false, "deny the flat visit query, forcing the hierarchy walk")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(visitsCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(browseCmd)
}

// app is what every command works against.
type app struct {
	store repository.Store
	query *visitquery.Service
	loc   *time.Location
	log   *zap.Logger
}

func openApp() (*app, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level)
	if err != nil {
		return nil, err
	}
	loc, err := config.AppConfig{Timezone: tz}.Location()
	if err != nil {
		return nil, err
	}
	db, err := database.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	st := repositoryImp.New(db, repositoryImp.Rules{AllowCollectionGroup: !noGroup})

	engine := visitquery.NewEngine(st, visitquery.WithEngineLogger(log))
	resolver := visitquery.NewResolver(st, 8, log)
	return &app{
		store: st,
		query: visitquery.NewService(engine, resolver, visitquery.NewExporter(loc), loc, log),
		loc:   loc,
		log:   log,
	}, nil
}
