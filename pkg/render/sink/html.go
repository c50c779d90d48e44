package sink

import (
	"bytes"
	"html/template"

	"github.com/setplot/setplot/pkg/upset"
)

// Script versions pinned for the standalone HTML page.
const (
	vegaVersion     = "5"
	vegaLiteVersion = "5"
	embedVersion    = "6"
)

var htmlTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/vega@{{.VegaVersion}}"></script>
  <script src="https://cdn.jsdelivr.net/npm/vega-lite@{{.VegaLiteVersion}}"></script>
  <script src="https://cdn.jsdelivr.net/npm/vega-embed@{{.EmbedVersion}}"></script>
  <style>
    body { margin: 0; padding: 24px; font-family: sans-serif; }
  </style>
</head>
<body>
  <div id="vis"></div>
  <script>
    vegaEmbed("#vis", {{.Spec}}, {actions: true}).catch(console.error);
  </script>
</body>
</html>
`))

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title string
}

// WithTitle sets the page title. Defaults to "setplot".
func WithTitle(title string) HTMLOption {
	return func(r *htmlRenderer) { r.title = title }
}

// RenderHTML produces a standalone HTML document embedding the chart's exact
// specification JSON with vega-embed. The page needs network access to fetch
// the viewer scripts; the data itself is inline.
func RenderHTML(c *upset.Chart, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "setplot"}
	for _, opt := range opts {
		opt(&r)
	}

	spec, err := c.JSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = htmlTemplate.Execute(&buf, struct {
		Title           string
		VegaVersion     string
		VegaLiteVersion string
		EmbedVersion    string
		Spec            template.JS
	}{
		Title:           r.title,
		VegaVersion:     vegaVersion,
		VegaLiteVersion: vegaLiteVersion,
		EmbedVersion:    embedVersion,
		Spec:            template.JS(spec),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
