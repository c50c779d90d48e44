// Package vega models the subset of the Vega-Lite v5 grammar that setplot
// emits: layered and concatenated views over inline data, with point
// selections for interactivity.
//
// The model is deliberately narrow. It is not a general Vega-Lite binding;
// it covers exactly the marks, encodings, transforms, and parameters that the
// UpSet composition uses, with struct field order fixed so that serialization
// is byte-deterministic for a given spec value.
//
// Rendering, layout, and event dispatch are the responsibility of Vega-Lite
// compliant viewers consuming the serialized specification.
package vega

import "encoding/json"

// SchemaURL identifies the Vega-Lite schema version the emitted
// specifications conform to.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// TopLevelSpec is a complete Vega-Lite specification document.
type TopLevelSpec struct {
	Schema  string  `json:"$schema"`
	Title   *Title  `json:"title,omitempty"`
	Data    *Data   `json:"data,omitempty"`
	Params  []Param `json:"params,omitempty"`
	VConcat []Spec  `json:"vconcat,omitempty"`
	HConcat []Spec  `json:"hconcat,omitempty"`
	Spacing float64 `json:"spacing,omitempty"`
	Config  *Config `json:"config,omitempty"`
}

// JSON serializes the specification as pretty-printed JSON. Output is
// byte-identical across calls for the same spec value.
func (s *TopLevelSpec) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Spec is a view specification: a single mark with encodings, or a
// composition of sub-views via layer, hconcat, or vconcat.
type Spec struct {
	Title     *Title      `json:"title,omitempty"`
	Width     float64     `json:"width,omitempty"`
	Height    float64     `json:"height,omitempty"`
	Data      *Data       `json:"data,omitempty"`
	Transform []Transform `json:"transform,omitempty"`
	Mark      *MarkDef    `json:"mark,omitempty"`
	Encoding  *Encoding   `json:"encoding,omitempty"`
	Params    []Param     `json:"params,omitempty"`
	Layer     []Spec      `json:"layer,omitempty"`
	HConcat   []Spec      `json:"hconcat,omitempty"`
	VConcat   []Spec      `json:"vconcat,omitempty"`
	Spacing   float64     `json:"spacing,omitempty"`
	Resolve   *Resolve    `json:"resolve,omitempty"`
}

// Title is a title definition with optional subtitle lines and styling.
type Title struct {
	Text             string   `json:"text"`
	Subtitle         []string `json:"subtitle,omitempty"`
	FontSize         float64  `json:"fontSize,omitempty"`
	FontWeight       int      `json:"fontWeight,omitempty"`
	Anchor           string   `json:"anchor,omitempty"`
	SubtitleColor    string   `json:"subtitleColor,omitempty"`
	SubtitleFontSize float64  `json:"subtitleFontSize,omitempty"`
}

// Data is an inline data source.
type Data struct {
	Values any    `json:"values,omitempty"`
	Name   string `json:"name,omitempty"`
}

// MarkDef describes a mark and its static properties.
type MarkDef struct {
	Type     string  `json:"type"`
	Size     float64 `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	Opacity  float64 `json:"opacity,omitempty"`
	Filled   *bool   `json:"filled,omitempty"`
	Stroke   string  `json:"stroke,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Extent   string  `json:"extent,omitempty"`
	Ticks    *bool   `json:"ticks,omitempty"`
	XOffset  float64 `json:"xOffset,omitempty"`
}

// Mark type names used by the assembler.
const (
	MarkBar     = "bar"
	MarkCircle  = "circle"
	MarkRect    = "rect"
	MarkRule    = "rule"
	MarkText    = "text"
	MarkTick    = "tick"
	MarkBoxplot = "boxplot"
)

// Encoding maps visual channels to fields or constants.
type Encoding struct {
	X       *ChannelDef  `json:"x,omitempty"`
	X2      *ChannelDef  `json:"x2,omitempty"`
	Y       *ChannelDef  `json:"y,omitempty"`
	Y2      *ChannelDef  `json:"y2,omitempty"`
	Color   *ChannelDef  `json:"color,omitempty"`
	Opacity *ChannelDef  `json:"opacity,omitempty"`
	Size    *ChannelDef  `json:"size,omitempty"`
	Text    *ChannelDef  `json:"text,omitempty"`
	Detail  *ChannelDef  `json:"detail,omitempty"`
	Tooltip []ChannelDef `json:"tooltip,omitempty"`
}

// ChannelDef is a single channel mapping: either a field definition, a
// constant value, or a conditional combination of both.
type ChannelDef struct {
	Field     string     `json:"field,omitempty"`
	Type      string     `json:"type,omitempty"`
	Aggregate string     `json:"aggregate,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Axis      *Axis      `json:"axis,omitempty"`
	Scale     *Scale     `json:"scale,omitempty"`
	Sort      *Sort      `json:"sort,omitempty"`
	Legend    *Legend    `json:"legend,omitempty"`
	Format    string     `json:"format,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
	Value     any        `json:"value,omitempty"`
}

// Field types.
const (
	Quantitative = "quantitative"
	Nominal      = "nominal"
	Ordinal      = "ordinal"
)

// NoTitle suppresses an axis or channel title. A pointer is needed because
// omitempty would drop the empty string that hides the title.
var NoTitle = strPtr("")

func strPtr(s string) *string { return &s }

// Bool returns a pointer for optional boolean spec fields.
func Bool(v bool) *bool { return &v }

// Axis configures an axis; a nil Axis uses viewer defaults.
type Axis struct {
	Labels        *bool   `json:"labels,omitempty"`
	Ticks         *bool   `json:"ticks,omitempty"`
	Grid          *bool   `json:"grid,omitempty"`
	Domain        *bool   `json:"domain,omitempty"`
	Title         *string `json:"title,omitempty"`
	LabelFontSize float64 `json:"labelFontSize,omitempty"`
	TickCount     int     `json:"tickCount,omitempty"`
	Orient        string  `json:"orient,omitempty"`
}

// HiddenAxis hides labels, ticks, grid, domain, and title, as the matrix
// view does on both positional channels.
func HiddenAxis() *Axis {
	return &Axis{
		Labels: Bool(false),
		Ticks:  Bool(false),
		Grid:   Bool(false),
		Domain: Bool(false),
		Title:  NoTitle,
	}
}

// Scale configures a channel scale.
type Scale struct {
	Domain []any    `json:"domain,omitempty"`
	Range  []string `json:"range,omitempty"`
}

// Sort orders a positional channel by another field.
type Sort struct {
	Field string `json:"field,omitempty"`
	Order string `json:"order,omitempty"`
}

// Legend configures a channel legend.
type Legend struct {
	Title      *string `json:"title,omitempty"`
	Orient     string  `json:"orient,omitempty"`
	SymbolType string  `json:"symbolType,omitempty"`
}

// Condition applies a value when a selection parameter matches the datum.
// Empty controls whether an empty selection matches everything.
type Condition struct {
	Param string `json:"param,omitempty"`
	Test  string `json:"test,omitempty"`
	Empty *bool  `json:"empty,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Param declares a selection parameter shared between components.
type Param struct {
	Name   string     `json:"name"`
	Select *SelectDef `json:"select,omitempty"`
	Bind   string     `json:"bind,omitempty"`
}

// SelectDef configures a point selection.
type SelectDef struct {
	Type   string   `json:"type"`
	Fields []string `json:"fields,omitempty"`
	On     string   `json:"on,omitempty"`
	Clear  string   `json:"clear,omitempty"`
}

// PointSelection declares a point selection over the given fields,
// optionally triggered by an event type such as "mouseover".
func PointSelection(name string, fields []string, on string) Param {
	return Param{
		Name: name,
		Select: &SelectDef{
			Type:   "point",
			Fields: fields,
			On:     on,
		},
	}
}

// LegendSelection declares a point selection bound to the legend.
func LegendSelection(name string, field string) Param {
	return Param{
		Name:   name,
		Select: &SelectDef{Type: "point", Fields: []string{field}},
		Bind:   "legend",
	}
}

// Transform is a single data transform step.
type Transform struct {
	Filter any `json:"filter,omitempty"`
}

// FilterExpr filters rows by a Vega expression over datum.
func FilterExpr(expr string) Transform {
	return Transform{Filter: expr}
}

// FilterParam filters rows to those matched by a selection parameter.
func FilterParam(name string) Transform {
	return Transform{Filter: map[string]string{"param": name}}
}

// Resolve controls scale sharing across concatenated views.
type Resolve struct {
	Scale map[string]string `json:"scale,omitempty"`
}

// SharedY is the resolve used by the matrix/set-bar row alignment.
func SharedY() *Resolve {
	return &Resolve{Scale: map[string]string{"y": "shared"}}
}

// Config is the top-level chart configuration (theming).
type Config struct {
	View       *ViewConfig   `json:"view,omitempty"`
	Axis       *AxisConfig   `json:"axis,omitempty"`
	Legend     *LegendConfig `json:"legend,omitempty"`
	Title      *TitleConfig  `json:"title,omitempty"`
	Concat     *ConcatConfig `json:"concat,omitempty"`
	Background string        `json:"background,omitempty"`
}

// ViewConfig styles the chart view frame. Stroke serializes as null when
// nil, which removes the view border in compliant viewers.
type ViewConfig struct {
	Stroke           *string `json:"stroke"`
	ContinuousWidth  float64 `json:"continuousWidth,omitempty"`
	ContinuousHeight float64 `json:"continuousHeight,omitempty"`
}

// AxisConfig styles all axes.
type AxisConfig struct {
	LabelFontSize   float64 `json:"labelFontSize,omitempty"`
	LabelFontWeight int     `json:"labelFontWeight,omitempty"`
	TitleFontSize   float64 `json:"titleFontSize,omitempty"`
	TitleFontWeight int     `json:"titleFontWeight,omitempty"`
	LabelColor      string  `json:"labelColor,omitempty"`
	TitleColor      string  `json:"titleColor,omitempty"`
	TickColor       string  `json:"tickColor,omitempty"`
	DomainColor     string  `json:"domainColor,omitempty"`
	GridColor       string  `json:"gridColor,omitempty"`
}

// LegendConfig styles the legend.
type LegendConfig struct {
	Orient          string  `json:"orient,omitempty"`
	SymbolType      string  `json:"symbolType,omitempty"`
	SymbolSize      float64 `json:"symbolSize,omitempty"`
	SymbolFillColor string  `json:"symbolFillColor,omitempty"`
	LabelFontSize   float64 `json:"labelFontSize,omitempty"`
	LabelColor      string  `json:"labelColor,omitempty"`
	TitleColor      string  `json:"titleColor,omitempty"`
	Padding         float64 `json:"padding,omitempty"`
}

// TitleConfig styles titles globally.
type TitleConfig struct {
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`
}

// ConcatConfig styles concatenation spacing.
type ConcatConfig struct {
	Spacing float64 `json:"spacing,omitempty"`
}
