package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/pipeline"
	"github.com/setplot/setplot/pkg/render/sink"
)

// renderCommand creates the render command for generating UpSet charts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		setsStr     string
		abbreStr    string
		formatsStr  string
		annotations []string
		output      string
		noCache     bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [data.csv]",
		Short: "Render an UpSet plot from a data file",
		Long: `Render an UpSet plot from a CSV or JSON data file.

Set membership is read from boolean indicator columns, one per set. The chart
shows intersection sizes as vertical bars, membership patterns as a dot
matrix, and per-set totals as horizontal bars, all linked interactively.

When --sets is omitted, an interactive picker offers the boolean columns
found in the data.

Image formats (svg, png, pdf) require the vl-convert binary and are cached
locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Sets = parseList(setsStr)
			opts.Abbreviations = parseList(abbreStr)
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			specs, err := parseAnnotations(annotations)
			if err != nil {
				return err
			}
			opts.Annotations = specs
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), html, svg, png, pdf (comma-separated)")

	// Data flags
	cmd.Flags().StringVarP(&setsStr, "sets", "s", "", "set indicator columns (comma-separated)")
	cmd.Flags().StringVar(&abbreStr, "abbre", "", "set label abbreviations, aligned with --sets (comma-separated)")
	cmd.Flags().StringArrayVar(&annotations, "annotate", nil, "attribute annotation 'column' or 'column:kind' (kind: boxplot, strip, bar)")

	// Chart flags
	cmd.Flags().StringVar(&opts.SortBy, "sort-by", "", "intersection sort key: frequency (default), degree")
	cmd.Flags().StringVar(&opts.SortOrder, "order", "", "sort order: descending (default), ascending")
	cmd.Flags().IntVar(&opts.MaxCombinations, "max-combinations", 0, "show at most this many intersections (0 = all)")
	cmd.Flags().IntVar(&opts.MaxDegree, "max-degree", 0, "show only intersections of at most this degree (0 = all)")
	cmd.Flags().BoolVar(&opts.DropEmpty, "drop-empty", false, "exclude rows that belong to no set")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "chart width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "chart height in pixels")
	cmd.Flags().Float64Var(&opts.HeightRatio, "height-ratio", 0, "share of height given to the intersection bars")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme name (default, dark) or path to a TOML theme file")
	cmd.Flags().StringVar(&opts.Title, "title", "", "chart title")
	cmd.Flags().StringArrayVar(&opts.Subtitle, "subtitle", nil, "chart subtitle line (repeatable)")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", 0, "resolution multiplier for PNG export")

	return cmd
}

// runRender executes the full pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.NoCache = noCache

	// Without --sets, offer the boolean columns interactively.
	if len(opts.Sets) == 0 {
		sets, err := c.pickSets(ctx, runner, opts)
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			printInfo("No set columns selected")
			return nil
		}
		opts.Sets = sets
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	allCached := len(result.CacheInfo.Hits) > 0
	for _, format := range opts.Formats {
		if !result.CacheInfo.Hits[format] {
			allCached = false
		}
	}

	printSuccess("Rendered %s", opts.Input)
	printStats(result.Stats.Rows, len(result.Meta.Sets), result.Stats.Combinations, allCached)

	return writeArtifacts(result.Artifacts, opts.Formats, opts.Input, output)
}

// pickSets loads the table and runs the interactive column picker over its
// candidate boolean columns.
func (c *CLI) pickSets(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) ([]string, error) {
	tbl, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	candidates := tbl.CandidateSetColumns()
	if len(candidates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSets,
			"no boolean columns found in %s; name the set columns with --sets", opts.Input)
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil, errors.New(errors.ErrCodeInvalidSets,
			"--sets is required when not running interactively")
	}
	return pickSetColumns(candidates)
}

// writeArtifacts writes each rendered format to its own file. With a single
// format the output path is used as-is; with several, paths are derived from
// the base path plus the format extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	if len(formats) == 1 {
		format := formats[0]
		path := output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
		return nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := base + "." + format
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeArtifact writes data to path, or to stdout when path is "-".
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.Write(data)
	return err
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .html, etc.), it strips that extension.
// This is used when generating multiple files (e.g., plot.svg, plot.html).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if sink.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
