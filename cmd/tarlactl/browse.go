package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tarlatakip/pkg/visitquery"
)

const browseHelp = `commands:
  farmer [ID]     scope to a farmer (clears the field), no id clears it
  field [ID]      scope to a field of the farmer
  from [DAY]      first day, YYYY-MM-DD
  to [DAY]        last day, YYYY-MM-DD
  q [TEXT]        search text
  n, p            next or previous page
  r               reload
  export FORMAT   write the shown page as csv or xlsx to --out
  quit`

var browseOut string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse visits interactively",
	Long:  "Browse visits interactively. Filters stay set between commands; type help for the list.",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseOut, "out", ".", "directory for export")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	s := a.query.NewSession(uid)
	show := func(st visitquery.State) error {
		return printState(out, a.query.Exporter(), s, st)
	}
	if err := show(s.Load(ctx)); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		name, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		var st visitquery.State
		var err error
		switch name {
		case "":
			fmt.Fprint(out, "> ")
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, browseHelp)
			fmt.Fprint(out, "> ")
			continue
		case "farmer":
			st = s.SetFarmer(ctx, arg)
		case "field":
			st = s.SetField(ctx, arg)
		case "from":
			st, err = s.SetDateFrom(arg)
		case "to":
			st, err = s.SetDateTo(arg)
		case "q":
			st = s.SetQuery(arg)
		case "n":
			st = s.Next()
		case "p":
			st = s.Prev()
		case "r":
			st = s.Load(ctx)
		case "export":
			err = exportSession(out, s, arg)
			st = s.State()
		default:
			err = fmt.Errorf("unknown command %q, try help", name)
			st = s.State()
		}
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		if err := show(st); err != nil {
			return err
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func exportSession(out io.Writer, s *visitquery.Session, arg string) error {
	format, err := visitquery.ParseFormat(arg)
	if err != nil {
		return err
	}
	art, err := s.Export(format)
	if err != nil {
		return err
	}
	path := filepath.Join(browseOut, art.Filename)
	if err := os.WriteFile(path, art.Body, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(out, "wrote", path)
	return nil
}

func printState(out io.Writer, e *visitquery.Exporter, s *visitquery.Session, st visitquery.State) error {
	if st.Error != nil {
		fmt.Fprintln(out, "load failed:", *st.Error)
	}
	if err := printVisits(out, e.Rows(st.Visits)); err != nil {
		return err
	}
	scope := s.Scope()
	from, to := s.DateRange()
	fmt.Fprintf(out, "\npage %d, %d visits in total", st.Page, st.Total)
	if st.HasNext {
		fmt.Fprint(out, ", n for more")
	}
	fmt.Fprintf(out, " [farmer=%s field=%s from=%s to=%s]\n", scope.FarmerID, scope.FieldID, from, to)
	return nil
}
