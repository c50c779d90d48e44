package upset

import (
	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/render/themes"
)

// SortBy selects the primary sort key for intersection combinations.
type SortBy string

// SortOrder selects the direction of the combination sort.
type SortOrder string

// Sort keys and orders.
const (
	SortByFrequency SortBy = "frequency" // sort by intersection size
	SortByDegree    SortBy = "degree"    // sort by number of participating sets

	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// Default chart dimensions, matching the reference UpSet layout.
const (
	DefaultWidth       = 1200.0
	DefaultHeight      = 700.0
	DefaultHeightRatio = 0.6
	DefaultSetBarWidth = 300.0
)

// Config holds all options for preprocessing and chart assembly.
// A Config is immutable once passed in; neither stage modifies it.
//
// The zero value is not usable directly; start from DefaultConfig.
type Config struct {
	// Sorting of intersection combinations.
	SortBy    SortBy
	SortOrder SortOrder

	// Display limits. Zero means unlimited. Truncation affects display rows
	// only; totals are always computed from the full grouping.
	MaxCombinations int
	MaxDegree       int

	// DropEmpty excludes the all-sets-false combination from the derived
	// table and from total-size accounting. By default the empty combination
	// is retained and counted.
	DropEmpty bool

	// Abbreviations for set labels, aligned with the set list. If the
	// lengths differ the abbreviations are dropped and full names are used.
	Abbreviations []string

	// Titles.
	Title    string
	Subtitle []string

	// Dimensions in pixels.
	Width       float64
	Height      float64
	HeightRatio float64 // share of Height given to the intersection bars
	SetBarWidth float64 // width of the horizontal set-size bar chart

	// Visual tuning.
	GlyphSize      float64 // matrix dot area
	LabelBGSize    float64 // set label background circle area
	ConnectionSize float64 // matrix connecting line thickness
	SetBarSize     float64 // horizontal bar thickness
	BarLabelSize   float64 // vertical bar value label font size
	BarPadding     float64 // padding between vertical bars

	// Theme provides colors and engine-level styling; nil uses the default.
	Theme *themes.Theme
}

// DefaultConfig returns the standard configuration: sort by frequency
// descending, no display limits, empty combination retained, default theme.
func DefaultConfig() Config {
	return Config{
		SortBy:         SortByFrequency,
		SortOrder:      Descending,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		HeightRatio:    DefaultHeightRatio,
		SetBarWidth:    DefaultSetBarWidth,
		GlyphSize:      200,
		LabelBGSize:    1000,
		ConnectionSize: 2,
		SetBarSize:     20,
		BarLabelSize:   16,
		BarPadding:     20,
	}
}

// theme returns the configured theme, falling back to the default.
func (c Config) theme() *themes.Theme {
	if c.Theme != nil {
		return c.Theme
	}
	return themes.Default()
}

// Validate checks the configuration for use with the given set list.
// Dimension errors and unknown sort keys are validation errors.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height, c.HeightRatio); err != nil {
		return err
	}
	if c.SetBarWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"set bar width must be positive, got %g", c.SetBarWidth)
	}
	switch c.SortBy {
	case SortByFrequency, SortByDegree:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown sort key %q", c.SortBy)
	}
	switch c.SortOrder {
	case Ascending, Descending:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown sort order %q", c.SortOrder)
	}
	if c.MaxCombinations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max combinations cannot be negative, got %d", c.MaxCombinations)
	}
	if c.MaxDegree < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max degree cannot be negative, got %d", c.MaxDegree)
	}
	return c.theme().Validate()
}
