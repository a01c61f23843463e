package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tarlatakip/pkg/visitquery"
)

var (
	visitsFarmer string
	visitsField  string
	visitsFrom   string
	visitsTo     string
	visitsQuery  string
	visitsPage   int
	visitsExport string
	visitsOut    string
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Browse visits, newest first, five per page",
	Long: `Browse visits, newest first, five per page.

Days are given as YYYY-MM-DD in --tz and both bounds are inclusive. The search
ignores case and accents and matches the note, farmer, phone, field type,
address and recommendation names.`,
	Args: cobra.NoArgs,
	RunE: runVisits,
}

func init() {
	f := visitsCmd.Flags()
	f.StringVar(&visitsFarmer, "farmer", "", "farmer id")
	f.StringVar(&visitsField, "field", "", "field id, used together with --farmer")
	f.StringVar(&visitsFrom, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&visitsTo, "to", "", "last day, YYYY-MM-DD")
	f.StringVarP(&visitsQuery, "query", "q", "", "search text")
	f.IntVar(&visitsPage, "page", 0, "page index, starting at 0")
	f.StringVar(&visitsExport, "export", "", "write the page as csv or xlsx instead of printing it")
	f.StringVar(&visitsOut, "out", ".", "directory for --export")
}

func runVisits(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	req := visitquery.BrowseRequest{
		FarmerID: visitsFarmer,
		FieldID:  visitsField,
		From:     visitsFrom,
		To:       visitsTo,
		Query:    visitsQuery,
		Page:     visitsPage,
	}
	out := cmd.OutOrStdout()

	if visitsExport != "" {
		format, err := visitquery.ParseFormat(visitsExport)
		if err != nil {
			return err
		}
		art, err := a.query.ExportPage(cmd.Context(), uid, req, format)
		if err != nil {
			return err
		}
		path := filepath.Join(visitsOut, art.Filename)
		if err := os.WriteFile(path, art.Body, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil
	}

	st, err := a.query.Browse(cmd.Context(), uid, req)
	if err != nil {
		return err
	}
	if err := printVisits(out, a.query.Exporter().Rows(st.Visits)); err != nil {
		return err
	}
	more := ""
	if st.HasNext {
		more = ", more with --page " + fmt.Sprint(st.Page+1)
	}
	fmt.Fprintf(out, "\npage %d, %d visits in total%s\n", st.Page, st.Total, more)
	return nil
}

func printVisits(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range append([][]string{visitquery.ExportHeader}, rows...) {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
