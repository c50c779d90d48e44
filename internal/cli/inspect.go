package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/setplot/setplot/pkg/pipeline"
	"github.com/setplot/setplot/pkg/upset"
)

// inspectCommand creates the inspect command for examining the derived
// intersection table without rendering a chart.
func (c *CLI) inspectCommand() *cobra.Command {
	var setsStr string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [data.csv]",
		Short: "Show the derived intersection table",
		Long: `Show the derived intersection table for a data file.

The inspect command runs the preprocessing stage only and prints each
intersection with its member sets, degree, and count, followed by per-set
totals. Useful for checking the data before rendering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Sets = parseList(setsStr)
			return c.runInspect(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&setsStr, "sets", "s", "", "set indicator columns (comma-separated)")
	cmd.Flags().StringVar(&opts.SortBy, "sort-by", "", "intersection sort key: frequency (default), degree")
	cmd.Flags().StringVar(&opts.SortOrder, "order", "", "sort order: descending (default), ascending")
	cmd.Flags().IntVar(&opts.MaxCombinations, "max-combinations", 0, "show at most this many intersections (0 = all)")
	cmd.Flags().IntVar(&opts.MaxDegree, "max-degree", 0, "show only intersections of at most this degree (0 = all)")
	cmd.Flags().BoolVar(&opts.DropEmpty, "drop-empty", false, "exclude rows that belong to no set")

	return cmd
}

// runInspect loads the data, derives the intersection table, and prints it.
func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options) error {
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()

	tbl, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	if len(opts.Sets) == 0 {
		opts.Sets = tbl.CandidateSetColumns()
		if len(opts.Sets) == 0 {
			printInfo("No boolean columns found in %s", opts.Input)
			return nil
		}
		printInfo("Using boolean columns: %v", opts.Sets)
	}

	dt, meta, _, err := runner.Preprocess(ctx, tbl, opts)
	if err != nil {
		return err
	}

	printIntersections(dt, meta)
	printNewline()
	printSetTotals(meta)
	return nil
}

// printIntersections renders the displayed combinations as a table.
func printIntersections(dt *upset.DerivedTable, meta upset.Meta) {
	total := dt.TotalCount()

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(dt.Display))
	for _, combo := range dt.Display {
		share := "0%"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(combo.Count)/float64(total))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", combo.ID),
			combo.Label(),
			fmt.Sprintf("%d", combo.Degree),
			fmt.Sprintf("%d", combo.Count),
			share,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Intersection", "Degree", "Count", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	fmt.Println(StyleTitle.Render("Intersections"))
	fmt.Println(t.Render())

	if len(dt.Display) < len(dt.All) {
		printDetail("%d of %d intersections shown", len(dt.Display), len(dt.All))
	}
}

// printSetTotals renders per-set membership totals.
func printSetTotals(meta upset.Meta) {
	fmt.Println(StyleTitle.Render("Set Totals"))
	for i, set := range meta.Sets {
		label := set
		if i < len(meta.Abbre) && meta.Abbre[i] != set {
			label = fmt.Sprintf("%s (%s)", set, meta.Abbre[i])
		}
		printKeyValue(label, fmt.Sprintf("%d of %d rows", meta.SetTotals[set], meta.TotalRows))
	}
}
