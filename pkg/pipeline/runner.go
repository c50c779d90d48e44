package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/setplot/setplot/pkg/cache"
	"github.com/setplot/setplot/pkg/observability"
	"github.com/setplot/setplot/pkg/render/sink"
	"github.com/setplot/setplot/pkg/table"
	"github.com/setplot/setplot/pkg/upset"
)

// Runner encapsulates pipeline execution with artifact caching.
// Both the CLI and the preview server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → preprocess → assemble → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{Hits: make(map[string]bool)},
	}

	// Stage 1: Load
	loadStart := time.Now()
	tbl, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = tbl.NumRows()

	r.Logger.Info("loaded data",
		"input", opts.Input,
		"rows", tbl.NumRows(),
		"columns", len(tbl.Columns()),
		"duration", result.Stats.LoadTime)

	// Stage 2: Preprocess
	preStart := time.Now()
	dt, meta, annotations, err := r.Preprocess(ctx, tbl, opts)
	if err != nil {
		return nil, err
	}
	result.Derived = dt
	result.Meta = meta
	result.Stats.PreprocessTime = time.Since(preStart)
	result.Stats.Combinations = len(dt.Display)

	r.Logger.Info("derived intersections",
		"sets", len(meta.Sets),
		"combinations", len(dt.All),
		"displayed", len(dt.Display),
		"duration", result.Stats.PreprocessTime)

	// Stage 3: Assemble
	asmStart := time.Now()
	chart, err := r.Assemble(dt, meta, opts, annotations)
	if err != nil {
		return nil, err
	}
	result.Chart = chart
	result.SpecJSON, err = chart.JSON()
	if err != nil {
		return nil, err
	}
	result.Stats.AssembleTime = time.Since(asmStart)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, chart, result.SpecJSON, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.Hits = hits
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input table.
func (r *Runner) Load(ctx context.Context, opts Options) (*table.Table, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Input)

	tbl, err := LoadTable(opts.Input)

	rows := 0
	if tbl != nil {
		rows = tbl.NumRows()
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Input, rows, time.Since(start), err)
	return tbl, err
}

// Preprocess derives the intersection table and any attribute annotations.
func (r *Runner) Preprocess(ctx context.Context, tbl *table.Table, opts Options) (*upset.DerivedTable, upset.Meta, []upset.Annotation, error) {
	cfg, err := opts.ChartConfig()
	if err != nil {
		return nil, upset.Meta{}, nil, err
	}

	start := time.Now()
	observability.Pipeline().OnPreprocessStart(ctx, opts.Sets)

	dt, meta, err := upset.Preprocess(tbl, opts.Sets, cfg)
	if err != nil {
		observability.Pipeline().OnPreprocessComplete(ctx, opts.Sets, 0, time.Since(start), err)
		return nil, upset.Meta{}, nil, err
	}

	annotations, err := upset.PreprocessAnnotations(tbl, opts.Sets, dt, opts.Annotations)
	observability.Pipeline().OnPreprocessComplete(ctx, opts.Sets, len(dt.All), time.Since(start), err)
	if err != nil {
		return nil, upset.Meta{}, nil, err
	}
	return dt, meta, annotations, nil
}

// Assemble builds the chart from the derived table.
func (r *Runner) Assemble(dt *upset.DerivedTable, meta upset.Meta, opts Options, annotations []upset.Annotation) (*upset.Chart, error) {
	cfg, err := opts.ChartConfig()
	if err != nil {
		return nil, err
	}
	return upset.Assemble(dt, meta, cfg, annotations...)
}

// RenderWithCacheInfo renders the requested formats, returning the artifacts
// and which of them were served from cache.
//
// JSON and HTML are produced in-process and never cached. Image formats go
// through vl-convert and are cached keyed by the spec JSON and the format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, chart *upset.Chart, specJSON []byte, opts Options) (map[string][]byte, map[string]bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	hits := make(map[string]bool, len(opts.Formats))

	var renderErr error
	for _, format := range opts.Formats {
		data, hit, err := r.renderFormat(ctx, chart, specJSON, format, opts)
		if err != nil {
			renderErr = err
			break
		}
		artifacts[format] = data
		hits[format] = hit
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, nil, renderErr
	}
	return artifacts, hits, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, chart *upset.Chart, specJSON []byte, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, chart, specJSON, opts)
	return artifacts, err
}

// renderFormat produces a single output format, consulting the cache for
// formats that require external conversion.
func (r *Runner) renderFormat(ctx context.Context, chart *upset.Chart, specJSON []byte, format string, opts Options) ([]byte, bool, error) {
	switch format {
	case sink.FormatJSON:
		return specJSON, false, nil
	case sink.FormatHTML:
		data, err := sink.RenderHTML(chart, sink.WithTitle(htmlTitle(opts)))
		return data, false, err
	}

	key := artifactKey(specJSON, format, opts)

	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var data []byte
	var err error
	switch format {
	case sink.FormatSVG:
		data, err = sink.ToSVG(chart)
	case sink.FormatPNG:
		data, err = sink.ToPNG(chart, opts.PNGScale)
	case sink.FormatPDF:
		data, err = sink.ToPDF(chart)
	}
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, false, nil
}

// artifactKey builds the cache key for one rendered format. PNG keys include
// the scale factor so different resolutions are cached separately.
func artifactKey(specJSON []byte, format string, opts Options) string {
	label := format
	if format == sink.FormatPNG {
		label = format + "@" + strconv.FormatFloat(opts.PNGScale, 'f', -1, 64)
	}
	return cache.ArtifactKey(specJSON, label)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// htmlTitle picks the page title for HTML output.
func htmlTitle(opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	return "setplot"
}
