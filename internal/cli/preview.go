package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/setplot/setplot/pkg/observability"
	"github.com/setplot/setplot/pkg/pipeline"
	"github.com/setplot/setplot/pkg/render/sink"
)

// previewCommand creates the preview command for serving an interactive chart.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		setsStr     string
		annotations []string
		addr        string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "preview [data.csv]",
		Short: "Serve an interactive chart on a local HTTP server",
		Long: `Serve an interactive chart on a local HTTP server.

The preview command renders the chart to HTML and serves it at the root path.
The raw Vega-Lite specification is available at /spec.json for use with other
Vega tooling. The server runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Sets = parseList(setsStr)
			specs, err := parseAnnotations(annotations)
			if err != nil {
				return err
			}
			opts.Annotations = specs
			return c.runPreview(cmd.Context(), opts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVarP(&setsStr, "sets", "s", "", "set indicator columns (comma-separated)")
	cmd.Flags().StringArrayVar(&annotations, "annotate", nil, "attribute annotation 'column' or 'column:kind'")
	cmd.Flags().StringVar(&opts.SortBy, "sort-by", "", "intersection sort key: frequency (default), degree")
	cmd.Flags().StringVar(&opts.SortOrder, "order", "", "sort order: descending (default), ascending")
	cmd.Flags().IntVar(&opts.MaxCombinations, "max-combinations", 0, "show at most this many intersections (0 = all)")
	cmd.Flags().IntVar(&opts.MaxDegree, "max-degree", 0, "show only intersections of at most this degree (0 = all)")
	cmd.Flags().BoolVar(&opts.DropEmpty, "drop-empty", false, "exclude rows that belong to no set")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme name (default, dark) or path to a TOML theme file")
	cmd.Flags().StringVar(&opts.Title, "title", "", "chart title")

	return cmd
}

// runPreview builds the chart once and serves it until the context is cancelled.
func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, addr string) error {
	if len(opts.Sets) == 0 {
		return fmt.Errorf("--sets is required for preview")
	}
	opts.Formats = []string{sink.FormatHTML}
	opts.Logger = c.Logger

	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           previewHandler(result.Artifacts[sink.FormatHTML], result.SpecJSON),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	printSuccess("Previewing %s", opts.Input)
	printDetail("Open %s in your browser, Ctrl-C to stop", "http://"+addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// previewHandler builds the preview routes: the HTML page at the root and
// the raw specification at /spec.json.
func previewHandler(page, spec []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
	r.Get("/spec.json", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(spec)
	})

	return r
}

// hooksMiddleware reports request events to the observability server hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		observability.Server().OnResponse(req.Context(), req.Method, req.URL.Path,
			ww.Status(), time.Since(start))
	})
}
