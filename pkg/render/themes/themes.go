// Package themes defines the visual themes applied to assembled charts.
//
// A theme bundles the set color range, highlight colors, and the top-level
// Vega-Lite configuration (axis, legend, view styling). Two themes are built
// in ("default" and "dark"); custom themes load from TOML files:
//
//	main_color      = "#3A3A3A"
//	highlight_color = "#EA4667"
//	color_range     = ["#55A8DB", "#3070B5", "#30363F"]
//
// Missing keys fall back to the default theme's values, so a file only needs
// to override what it changes.
package themes

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/vega"
)

// Theme bundles all color and styling choices for a chart.
type Theme struct {
	Name string `toml:"name"`

	// MainColor is the default mark color for bars and matrix dots.
	MainColor string `toml:"main_color"`

	// HighlightColor emphasizes the hovered combination across components.
	HighlightColor string `toml:"highlight_color"`

	// ColorRange assigns colors to sets, cycled when there are more sets
	// than colors.
	ColorRange []string `toml:"color_range"`

	// MatrixStripeColor fills the alternating row stripes behind the matrix.
	MatrixStripeColor string `toml:"matrix_stripe_color"`

	// MatrixDotColor fills the non-member background dots.
	MatrixDotColor string `toml:"matrix_dot_color"`

	// TextColor is used for axis labels and titles.
	TextColor string `toml:"text_color"`

	// Background is the chart background; empty leaves the viewer default.
	Background string `toml:"background"`
}

// Default returns the standard light theme, matching the reference palette.
func Default() *Theme {
	return &Theme{
		Name:           "default",
		MainColor:      "#3A3A3A",
		HighlightColor: "#EA4667",
		ColorRange: []string{
			"#55A8DB", "#3070B5", "#30363F", "#F1AD60", "#DF6234", "#BDC6CA",
		},
		MatrixStripeColor: "#F7F7F7",
		MatrixDotColor:    "#E6E6E6",
		TextColor:         "#2A2A2A",
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:           "dark",
		MainColor:      "#C9C9C9",
		HighlightColor: "#FF6E8B",
		ColorRange: []string{
			"#6FB7E8", "#4E8BD0", "#9AA3AD", "#F5BE78", "#E87B52", "#D3DBDF",
		},
		MatrixStripeColor: "#23272C",
		MatrixDotColor:    "#3B4149",
		TextColor:         "#D8D8D8",
		Background:        "#14171A",
	}
}

// ByName resolves a built-in theme by name.
func ByName(name string) (*Theme, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "dark":
		return Dark(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", name)
}

// Load reads a theme from a TOML file. Keys absent from the file keep the
// default theme's values. TOML parse errors pass through wrapped with the
// file path.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme file %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML theme data over the default theme.
func Parse(data []byte) (*Theme, error) {
	t := Default()
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parsing theme")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every color in the theme is usable.
func (t *Theme) Validate() error {
	if len(t.ColorRange) == 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "theme %q has an empty color range", t.Name)
	}
	colors := []string{t.MainColor, t.HighlightColor, t.MatrixStripeColor, t.MatrixDotColor, t.TextColor}
	colors = append(colors, t.ColorRange...)
	if t.Background != "" {
		colors = append(colors, t.Background)
	}
	for _, c := range colors {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// SetColors returns one color per set, cycling the range as needed.
func (t *Theme) SetColors(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = t.ColorRange[i%len(t.ColorRange)]
	}
	return out
}

// VegaConfig builds the top-level Vega-Lite configuration for this theme.
// legendSymbolSize follows the set label background size so legend glyphs
// match the matrix labels.
func (t *Theme) VegaConfig(legendSymbolSize float64) *vega.Config {
	cfg := &vega.Config{
		View: &vega.ViewConfig{Stroke: nil},
		Axis: &vega.AxisConfig{
			LabelFontSize: 14,
			TitleFontSize: 16,
			LabelColor:    t.TextColor,
			TitleColor:    t.TextColor,
			TickColor:     t.MainColor,
			DomainColor:   t.MainColor,
		},
		Legend: &vega.LegendConfig{
			Orient:        "top",
			SymbolType:    "circle",
			SymbolSize:    legendSymbolSize,
			LabelFontSize: 14,
			LabelColor:    t.TextColor,
			TitleColor:    t.TextColor,
			Padding:       20,
		},
		Title: &vega.TitleConfig{
			FontSize: 20,
			Color:    t.TextColor,
			Anchor:   "start",
		},
		Concat:     &vega.ConcatConfig{Spacing: 0},
		Background: t.Background,
	}
	return cfg
}
