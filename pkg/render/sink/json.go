// Package sink turns an assembled chart into output artifacts.
//
// Three kinds of sink exist:
//   - JSON: the Vega-Lite specification itself, the primary interchange
//     format. Compliant viewers render it directly.
//   - HTML: a standalone page embedding the specification with vega-embed,
//     viewable by double-clicking the file.
//   - SVG/PNG/PDF: delegated entirely to the external vl-convert binary; no
//     rasterization happens in-process.
package sink

import (
	"github.com/setplot/setplot/pkg/upset"
)

// Format names for the supported artifact types.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatHTML: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// JSON exports the chart's Vega-Lite specification as pretty-printed JSON.
// Output is byte-identical for the same chart.
func JSON(c *upset.Chart) ([]byte, error) {
	return c.JSON()
}
