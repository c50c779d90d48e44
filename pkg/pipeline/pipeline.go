// Package pipeline provides the core chart pipeline for setplot.
//
// This package implements the complete load → preprocess → assemble → render
// pipeline that can be used by the CLI and the preview server. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read boolean tabular data from CSV or JSON files
//  2. Preprocess: Derive set-intersection combinations with counts and degrees
//  3. Assemble: Build the interactive Vega-Lite specification
//  4. Render: Generate output in various formats (JSON, HTML, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Input:   "data.csv",
//	    Sets:    []string{"A", "B", "C"},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	tbl, err := runner.Load(ctx, opts)
//
//	// Preprocess with an existing table
//	dt, meta, err := runner.Preprocess(ctx, tbl, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/render/sink"
	"github.com/setplot/setplot/pkg/render/themes"
	"github.com/setplot/setplot/pkg/upset"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview Server
// =============================================================================

const (
	// DefaultFormat is the output format used when none is requested.
	DefaultFormat = sink.FormatJSON

	// DefaultPNGScale is the resolution multiplier for PNG export.
	DefaultPNGScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for preview server requests.
type Options struct {
	// Load options
	Input string `json:"input"` // path to a .csv or .json data file

	// Preprocess options
	Sets            []string `json:"sets"`
	Abbreviations   []string `json:"abbreviations,omitempty"`
	SortBy          string   `json:"sort_by,omitempty"`
	SortOrder       string   `json:"sort_order,omitempty"`
	MaxCombinations int      `json:"max_combinations,omitempty"`
	MaxDegree       int      `json:"max_degree,omitempty"`
	DropEmpty       bool     `json:"drop_empty,omitempty"`

	// Annotation options
	Annotations []upset.AnnotationSpec `json:"annotations,omitempty"`

	// Assemble options
	Title       string   `json:"title,omitempty"`
	Subtitle    []string `json:"subtitle,omitempty"`
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	HeightRatio float64  `json:"height_ratio,omitempty"`
	Theme       string   `json:"theme,omitempty"` // builtin name or path to a TOML file

	// Render options
	Formats  []string `json:"formats,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`
	NoCache  bool     `json:"no_cache,omitempty"` // bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Derived is the derived intersection table.
	Derived *upset.DerivedTable

	// Meta describes the set list, abbreviations, and totals.
	Meta upset.Meta

	// Chart is the assembled Vega-Lite chart.
	Chart *upset.Chart

	// SpecJSON is the serialized specification.
	SpecJSON []byte

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows           int
	Combinations   int
	LoadTime       time.Duration
	PreprocessTime time.Duration
	AssembleTime   time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for rendered artifacts.
type CacheInfo struct {
	// Hits maps each requested format to whether its artifact came from
	// the cache. Formats produced in-process (json, html) never hit.
	Hits map[string]bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !sink.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, html, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if len(o.Sets) == 0 {
		return errors.New(errors.ErrCodeInvalidSets, "at least one set column is required")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := o.ChartConfig(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ChartConfig builds the chart configuration from the options, resolving the
// theme by builtin name or TOML file path.
func (o Options) ChartConfig() (upset.Config, error) {
	cfg := upset.DefaultConfig()

	if o.SortBy != "" {
		cfg.SortBy = upset.SortBy(o.SortBy)
	}
	if o.SortOrder != "" {
		cfg.SortOrder = upset.SortOrder(o.SortOrder)
	}
	cfg.MaxCombinations = o.MaxCombinations
	cfg.MaxDegree = o.MaxDegree
	cfg.DropEmpty = o.DropEmpty
	cfg.Abbreviations = o.Abbreviations
	cfg.Title = o.Title
	cfg.Subtitle = o.Subtitle

	if o.Width != 0 {
		cfg.Width = o.Width
	}
	if o.Height != 0 {
		cfg.Height = o.Height
	}
	if o.HeightRatio != 0 {
		cfg.HeightRatio = o.HeightRatio
	}

	theme, err := resolveTheme(o.Theme)
	if err != nil {
		return upset.Config{}, err
	}
	cfg.Theme = theme

	if err := cfg.Validate(); err != nil {
		return upset.Config{}, err
	}
	return cfg, nil
}

// resolveTheme loads a theme by builtin name first, then as a file path.
func resolveTheme(name string) (*themes.Theme, error) {
	if name == "" {
		return themes.Default(), nil
	}
	if theme, err := themes.ByName(name); err == nil {
		return theme, nil
	}
	return themes.Load(name)
}
