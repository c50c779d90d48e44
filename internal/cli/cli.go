// Package cli implements the setplot command-line interface.
//
// This package provides commands for rendering UpSet plots from boolean
// tabular data, inspecting derived intersection tables, previewing charts in
// the browser, and managing the artifact cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate JSON, HTML, SVG, PNG, or PDF charts from a data file
//   - inspect: Show the derived intersection table without rendering
//   - preview: Serve an interactive chart on a local HTTP server
//   - cache: Manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/setplot/setplot/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/setplot/setplot/pkg/buildinfo"
	"github.com/setplot/setplot/pkg/cache"
	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/pipeline"
	"github.com/setplot/setplot/pkg/upset"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "setplot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "setplot",
		Short:        "Setplot renders UpSet plots of set intersections",
		Long:         `Setplot is a CLI tool for visualizing set intersections in boolean tabular data as interactive UpSet plots, making overlap structure between many sets easy to read.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/setplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Parsing Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// parseList parses a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAnnotations parses repeated --annotate values of the form
// "attribute" or "attribute:kind". The kind defaults to boxplot.
func parseAnnotations(values []string) ([]upset.AnnotationSpec, error) {
	specs := make([]upset.AnnotationSpec, 0, len(values))
	for _, v := range values {
		attr, kind, found := strings.Cut(v, ":")
		attr = strings.TrimSpace(attr)
		if attr == "" {
			return nil, errors.New(errors.ErrCodeInvalidAnnotation,
				"annotation %q has no attribute name", v)
		}
		spec := upset.AnnotationSpec{Attribute: attr, Kind: upset.AnnotationBoxplot}
		if found {
			switch upset.AnnotationKind(strings.TrimSpace(kind)) {
			case upset.AnnotationBoxplot:
				spec.Kind = upset.AnnotationBoxplot
			case upset.AnnotationStrip:
				spec.Kind = upset.AnnotationStrip
			case upset.AnnotationBar:
				spec.Kind = upset.AnnotationBar
			default:
				return nil, errors.New(errors.ErrCodeInvalidAnnotation,
					"unknown annotation kind %q (must be 'boxplot', 'strip', or 'bar')", kind)
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
