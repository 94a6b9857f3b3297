package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

// ReportOptions holds options for the report command.
type ReportOptions struct {
	JSON bool
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the FMS result summary",
		Long: `Fetch the FMS result table and print the pass/fail summary together
with per-category weight statistics.`,
		Example: `  fmsboard report
  fmsboard report --table fms.daily_result --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return runReport(cmd.Context(), cmd.OutOrStdout(), cctx.FMS, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the report as JSON")
	cmd.Flags().String("table", "", "Result table to read (default: fms.total_result)")

	return cmd
}

// numbers groups thousands the way the board's Korean readers expect.
var numbers = message.NewPrinter(language.Korean)

// runReport prints the report. A failed fetch or fold is returned after the
// partial report has been printed.
func runReport(ctx context.Context, w io.Writer, svc *fms.Service, opts *ReportOptions) error {
	res, err := svc.Result(ctx)
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res.Report); encErr != nil {
			return encErr
		}
		return err
	}

	renderSummary(w, res.Report.Summary)
	renderCategoryStats(w, res.Report.WeightsByCategory.Stats(), svc.Columns())
	for _, issue := range res.Report.Issues {
		_, _ = fmt.Fprintf(w, "warning: %v\n", issue)
	}
	return err
}

func renderSummary(w io.Writer, s fms.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("FMS summary")
	t.AppendHeader(table.Row{"Total", "Pass", "Fail", "Fail rate"})
	t.AppendRow(table.Row{
		numbers.Sprintf("%d", s.Total),
		numbers.Sprintf("%d", s.Pass),
		numbers.Sprintf("%d", s.Fail),
		numbers.Sprintf("%.1f%%", s.FailRate()*100),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func renderCategoryStats(w io.Writer, stats []fms.CategoryStat, cols fms.Columns) {
	if len(stats) == 0 {
		_, _ = fmt.Fprintln(w, "(no positive weights)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(cols.Weight + " by " + cols.Category)
	t.AppendHeader(table.Row{cols.Category, "Count", "Min", "Max", "Mean"})
	for _, st := range stats {
		t.AppendRow(table.Row{
			st.Category,
			numbers.Sprintf("%d", st.Count),
			numbers.Sprintf("%.1f", st.Min),
			numbers.Sprintf("%.1f", st.Max),
			numbers.Sprintf("%.1f", st.Mean),
		})
	}
	t.Render()
}
