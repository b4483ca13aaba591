package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/aita-go-api/internal/reports"
)

func newReportsCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List and export saved reports",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}

			found := app.reports.List(cmd.Context(), search)
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STUDENT\tTITLE\tSCORE\tDATE\tFEEDBACK")
			for _, r := range found {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					r.StudentName,
					r.EssayTitle,
					r.Score,
					r.CreatedTime().Local().Format("2006-01-02 15:04"),
					summary(r.Feedback, 60),
				)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by student, title or feedback")

	var (
		format string
		out    string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Export every report as csv, pdf, xlsx or html",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := app.requireTeacher(cmd); err != nil {
				return err
			}

			f, err := reports.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = reports.DefaultFilename(f)
			}

			if out == "-" {
				return app.reports.Export(cmd.Context(), cmd.OutOrStdout(), f)
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer func() {
				if cerr := file.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := app.reports.Export(cmd.Context(), file, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", out)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", string(reports.FormatCSV), "csv, pdf, xlsx or html")
	export.Flags().StringVar(&out, "out", "", "output file, - for stdout (default ai-teacher-reports.<format>)")

	cmd.AddCommand(list, export)
	return cmd
}

func summary(text string, max int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= max {
		return flat
	}
	return string(runes[:max-1]) + "…"
}
