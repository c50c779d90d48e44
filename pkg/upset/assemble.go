package upset

import (
	"math"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/render/themes"
	"github.com/setplot/setplot/pkg/vega"
)

// Selection parameter names shared between the chart components. Names are
// fixed so that assembling the same inputs twice yields identical output.
const (
	selLegend = "legend_sets"
	selHover  = "hover_intersection"
	selActive = "active_intersection"
)

// Chart is an assembled, immutable UpSet chart. It is constructed once from
// a derived table and configuration; export is available on demand.
type Chart struct {
	spec *vega.TopLevelSpec
}

// Spec returns the underlying Vega-Lite specification. Callers must treat it
// as read-only.
func (c *Chart) Spec() *vega.TopLevelSpec {
	return c.spec
}

// JSON serializes the chart to its Vega-Lite specification. Output is
// byte-identical across calls.
func (c *Chart) JSON() ([]byte, error) {
	return c.spec.JSON()
}

// Assemble builds the three chart components over the derived table, wires
// the shared selections, and composes them into a single specification:
// intersection-size bars on top, with the membership matrix, set labels, and
// set-size bars side by side below. Optional annotations append extra
// x-aligned rows underneath.
//
// Assembly is pure: it does not modify the derived table, and the three
// selections are declared in the specification rather than dispatched here.
func Assemble(dt *DerivedTable, meta Meta, cfg Config, annotations ...Annotation) (*Chart, error) {
	if dt == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "derived table cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(meta.Sets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSets, "metadata has no sets")
	}
	for _, c := range dt.All {
		if len(c.Members) != len(meta.Sets) {
			return nil, errors.New(errors.ErrCodeInvalidSets,
				"combination %q does not match the %d sets in metadata", c.Key(), len(meta.Sets))
		}
		for _, name := range c.Sets {
			if _, ok := meta.SetOrder[name]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidSets,
					"combination references set %q absent from metadata", name)
			}
		}
	}

	theme := cfg.theme()
	a := &assembler{dt: dt, meta: meta, cfg: cfg, theme: theme}

	barChart := a.intersectionBars()
	matrixRow := vega.Spec{
		HConcat: []vega.Spec{a.matrixView(), a.setLabels(), a.setBars()},
		Spacing: 5,
		Resolve: vega.SharedY(),
	}

	vconcat := []vega.Spec{barChart, matrixRow}
	for _, ann := range annotations {
		vconcat = append(vconcat, a.annotationView(ann))
	}

	spec := &vega.TopLevelSpec{
		Schema:  vega.SchemaURL,
		Data:    &vega.Data{Values: dt.Long(meta)},
		VConcat: vconcat,
		Spacing: 20,
		Config:  theme.VegaConfig(cfg.LabelBGSize / 2),
	}
	if cfg.Title != "" || len(cfg.Subtitle) > 0 {
		spec.Title = &vega.Title{
			Text:             cfg.Title,
			Subtitle:         cfg.Subtitle,
			FontSize:         20,
			FontWeight:       500,
			SubtitleColor:    theme.MainColor,
			SubtitleFontSize: 14,
		}
	}

	return &Chart{spec: spec}, nil
}

// assembler carries the shared pieces of the composition.
type assembler struct {
	dt    *DerivedTable
	meta  Meta
	cfg   Config
	theme *themes.Theme
}

// matrixWidth is the width shared by the intersection bars and the matrix.
func (a *assembler) matrixWidth() float64 {
	return a.cfg.Width - a.cfg.SetBarWidth
}

// barHeight is the height of the intersection bar chart.
func (a *assembler) barHeight() float64 {
	return a.cfg.Height * a.cfg.HeightRatio
}

// matrixHeight is the height of the matrix and set bar row.
func (a *assembler) matrixHeight() float64 {
	return a.cfg.Height - a.barHeight()
}

// barSize caps bar thickness at 30px and shrinks it when many combinations
// must share the width.
func (a *assembler) barSize() float64 {
	n := len(a.dt.Display)
	if n == 0 {
		return 30
	}
	return math.Min(30, a.matrixWidth()/float64(n)-a.cfg.BarPadding)
}

// xSort orders the intersection axis. Combination IDs already encode the
// preprocessor's chosen order (including the deterministic tie-break), so the
// components sort by ID rather than re-deriving the order in the viewer.
func (a *assembler) xSort() *vega.Sort {
	return &vega.Sort{Field: "intersection_id", Order: "ascending"}
}

// xChannel is the shared intersection axis with its axis hidden.
func (a *assembler) xChannel() *vega.ChannelDef {
	return &vega.ChannelDef{
		Field: "intersection_id",
		Type:  vega.Nominal,
		Axis:  vega.HiddenAxis(),
		Sort:  a.xSort(),
	}
}

// yOrderChannel is the shared set axis used by the matrix and set bars.
func (a *assembler) yOrderChannel() *vega.ChannelDef {
	return &vega.ChannelDef{
		Field: "set_order",
		Type:  vega.Ordinal,
		Axis:  vega.HiddenAxis(),
	}
}

// highlightColor emphasizes the hovered combination and falls back to the
// main color when nothing is hovered.
func (a *assembler) highlightColor() *vega.ChannelDef {
	return &vega.ChannelDef{
		Condition: &vega.Condition{
			Param: selHover,
			Empty: vega.Bool(false),
			Value: a.theme.HighlightColor,
		},
		Value: a.theme.MainColor,
	}
}

// tooltip shows cardinality and degree for the hovered combination.
func (a *assembler) tooltip() []vega.ChannelDef {
	cardinality := "Cardinality"
	degree := "Degree"
	return []vega.ChannelDef{
		{Field: "count", Aggregate: "max", Type: vega.Quantitative, Title: &cardinality},
		{Field: "degree", Type: vega.Quantitative, Title: &degree},
	}
}

// intersectionBars builds the vertical intersection-size bar chart with its
// value labels. The three shared selections are declared here once and
// referenced by name from the other components.
func (a *assembler) intersectionBars() vega.Spec {
	sizeTitle := "Intersection Size"

	bars := vega.Spec{
		Transform: []vega.Transform{vega.FilterParam(selLegend)},
		Mark:      &vega.MarkDef{Type: vega.MarkBar, Size: a.barSize()},
		Encoding: &vega.Encoding{
			X: a.xChannel(),
			Y: &vega.ChannelDef{
				Field:     "count",
				Aggregate: "max",
				Type:      vega.Quantitative,
				Title:     &sizeTitle,
			},
			Color:   a.highlightColor(),
			Tooltip: a.tooltip(),
		},
		Params: []vega.Param{
			vega.LegendSelection(selLegend, "set"),
			vega.PointSelection(selHover, []string{"intersection_id"}, "mouseover"),
			vega.PointSelection(selActive, []string{"intersection_id"}, ""),
		},
	}

	labels := vega.Spec{
		Transform: []vega.Transform{vega.FilterParam(selLegend)},
		Mark: &vega.MarkDef{
			Type:     vega.MarkText,
			DY:       -10,
			FontSize: a.cfg.BarLabelSize,
			Color:    a.theme.MainColor,
		},
		Encoding: &vega.Encoding{
			X: a.xChannel(),
			Y: &vega.ChannelDef{
				Field:     "count",
				Aggregate: "max",
				Type:      vega.Quantitative,
				Title:     vega.NoTitle,
			},
			Text: &vega.ChannelDef{
				Field:     "count",
				Aggregate: "max",
				Type:      vega.Quantitative,
			},
		},
	}

	return vega.Spec{
		Width:  a.matrixWidth(),
		Height: a.barHeight(),
		Layer:  []vega.Spec{bars, labels},
	}
}

// matrixView builds the connectivity matrix: alternating background stripes,
// a background dot for every (set, combination) cell, an emphasized dot for
// member cells, and a rule connecting each combination's member rows.
func (a *assembler) matrixView() vega.Spec {
	stripes := vega.Spec{
		Transform: []vega.Transform{vega.FilterExpr("datum.set_order % 2 == 1")},
		Mark: &vega.MarkDef{
			Type:  vega.MarkRect,
			Color: a.theme.MatrixStripeColor,
		},
		Encoding: &vega.Encoding{
			Y: a.yOrderChannel(),
		},
	}

	background := vega.Spec{
		Mark: &vega.MarkDef{
			Type:  vega.MarkCircle,
			Size:  a.cfg.GlyphSize,
			Color: a.theme.MatrixDotColor,
		},
		Encoding: &vega.Encoding{
			X: a.xChannel(),
			Y: a.yOrderChannel(),
		},
	}

	dots := vega.Spec{
		Transform: []vega.Transform{vega.FilterExpr("datum.is_intersect == 1")},
		Mark: &vega.MarkDef{
			Type: vega.MarkCircle,
			Size: a.cfg.GlyphSize,
		},
		Encoding: &vega.Encoding{
			X:       a.xChannel(),
			Y:       a.yOrderChannel(),
			Color:   a.highlightColor(),
			Tooltip: a.tooltip(),
		},
	}

	connections := vega.Spec{
		Transform: []vega.Transform{vega.FilterExpr("datum.is_intersect == 1")},
		Mark: &vega.MarkDef{
			Type: vega.MarkRule,
			Size: a.cfg.ConnectionSize,
		},
		Encoding: &vega.Encoding{
			X: a.xChannel(),
			Y: &vega.ChannelDef{
				Field:     "set_order",
				Aggregate: "min",
				Type:      vega.Ordinal,
				Axis:      vega.HiddenAxis(),
			},
			Y2: &vega.ChannelDef{
				Field:     "set_order",
				Aggregate: "max",
			},
			Detail: &vega.ChannelDef{Field: "intersection_id", Type: vega.Nominal},
			Color:  a.highlightColor(),
		},
	}

	return vega.Spec{
		Width:  a.matrixWidth(),
		Height: a.matrixHeight(),
		Layer:  []vega.Spec{stripes, background, dots, connections, dots},
	}
}

// setLabelWidth is the width of the set label column between the matrix and
// the set-size bars.
const setLabelWidth = 60.0

// setLabels builds the set label column: abbreviation text over an optional
// colored background circle. The background is shown only when every
// abbreviation is short enough to fit inside it.
func (a *assembler) setLabels() vega.Spec {
	showBG := a.shortAbbreviations()

	textColor := a.theme.TextColor
	if showBG {
		textColor = "white"
	}

	text := vega.Spec{
		Mark: &vega.MarkDef{
			Type:  vega.MarkText,
			Color: textColor,
		},
		Encoding: &vega.Encoding{
			Y:    a.yOrderChannel(),
			Text: &vega.ChannelDef{Field: "set_abbre", Type: vega.Nominal},
		},
	}

	if !showBG {
		return vega.Spec{
			Width:  setLabelWidth,
			Height: a.matrixHeight(),
			Layer:  []vega.Spec{text},
		}
	}

	background := vega.Spec{
		Mark: &vega.MarkDef{
			Type: vega.MarkCircle,
			Size: a.cfg.LabelBGSize,
		},
		Encoding: &vega.Encoding{
			Y:     a.yOrderChannel(),
			Color: a.setColorChannel(),
		},
	}

	return vega.Spec{
		Width:  setLabelWidth,
		Height: a.matrixHeight(),
		Layer:  []vega.Spec{background, text},
	}
}

// setBars builds the horizontal set-size bar chart. It binds to its own
// per-set dataset computed from the full grouping, so display truncation
// never changes set totals.
func (a *assembler) setBars() vega.Spec {
	sizeTitle := "Set Size"

	return vega.Spec{
		Width:  a.cfg.SetBarWidth,
		Height: a.matrixHeight(),
		Data:   &vega.Data{Values: a.setTotalRows()},
		Transform: []vega.Transform{
			vega.FilterParam(selLegend),
		},
		Mark: &vega.MarkDef{Type: vega.MarkBar, Size: a.cfg.SetBarSize},
		Encoding: &vega.Encoding{
			X: &vega.ChannelDef{
				Field: "count",
				Type:  vega.Quantitative,
				Title: &sizeTitle,
			},
			Y:     a.yOrderChannel(),
			Color: a.setColorChannel(),
		},
	}
}

// setColorChannel colors marks by set name with the theme's color range.
func (a *assembler) setColorChannel() *vega.ChannelDef {
	domain := make([]any, len(a.meta.Sets))
	for i, s := range a.meta.Sets {
		domain[i] = s
	}
	return &vega.ChannelDef{
		Field: "set",
		Type:  vega.Nominal,
		Scale: &vega.Scale{
			Domain: domain,
			Range:  a.theme.SetColors(len(a.meta.Sets)),
		},
		Legend: &vega.Legend{Title: vega.NoTitle},
	}
}

// setTotalRow is one bar of the set-size chart.
type setTotalRow struct {
	Set      string `json:"set"`
	SetAbbre string `json:"set_abbre"`
	SetOrder int    `json:"set_order"`
	Count    int    `json:"count"`
}

// setTotalRows derives the per-set totals dataset from the metadata.
func (a *assembler) setTotalRows() []setTotalRow {
	rows := make([]setTotalRow, len(a.meta.Sets))
	for i, name := range a.meta.Sets {
		rows[i] = setTotalRow{
			Set:      name,
			SetAbbre: a.meta.Abbre[i],
			SetOrder: a.meta.SetOrder[name],
			Count:    a.meta.SetTotals[name],
		}
	}
	return rows
}

// shortAbbreviations reports whether every abbreviation fits inside the
// label background circle (two characters or fewer).
func (a *assembler) shortAbbreviations() bool {
	for _, ab := range a.meta.Abbre {
		if len([]rune(ab)) > 2 {
			return false
		}
	}
	return true
}
