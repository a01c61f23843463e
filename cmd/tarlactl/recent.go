package main

import (
	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the ten newest visits across all farmers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.log.Sync() }()

		views, err := a.query.Recent(cmd.Context(), uid)
		if err != nil {
			return err
		}
		return printVisits(cmd.OutOrStdout(), a.query.Exporter().Rows(views))
	},
}
