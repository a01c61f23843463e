package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	farmerSvcImp "tarlatakip/pkg/farmer/serviceImp"
	fieldSvcImp "tarlatakip/pkg/field/serviceImp"
	recSvcImp "tarlatakip/pkg/recommendation/serviceImp"
	"tarlatakip/pkg/seed"
	visitSvcImp "tarlatakip/pkg/visit/serviceImp"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load farmers, fields, visits and recommendations from YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	f, err := seed.Parse(in)
	if err != nil {
		return err
	}
	// seeded addresses are taken as written, no geocoder
	sum, err := seed.Apply(cmd.Context(), seed.Services{
		Farmers:         farmerSvcImp.NewFarmerService(a.store, a.store),
		Fields:          fieldSvcImp.NewFieldService(a.store, nil, a.log),
		Visits:          visitSvcImp.NewVisitService(a.store, a.loc),
		Recommendations: recSvcImp.NewRecommendationService(a.store),
	}, uid, f)
	if sum != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "recommendations: %d  farmers: %d  fields: %d  visits: %d\n",
			sum.Recommendations, sum.Farmers, sum.Fields, sum.Visits)
	}
	return err
}
