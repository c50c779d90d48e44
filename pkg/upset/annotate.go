package upset

import (
	"strings"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/table"
	"github.com/setplot/setplot/pkg/vega"
)

// AnnotationKind selects how an annotation attribute is drawn.
type AnnotationKind string

// Supported annotation plot kinds.
const (
	AnnotationBoxplot AnnotationKind = "boxplot"
	AnnotationStrip   AnnotationKind = "strip"
	AnnotationBar     AnnotationKind = "bar"
)

// DefaultAnnotationHeight is used when a spec leaves Height unset.
const DefaultAnnotationHeight = 100.0

// AnnotationSpec describes one annotation row to draw beneath the matrix:
// the distribution of a numeric attribute per intersection.
type AnnotationSpec struct {
	// Attribute names a numeric column in the raw input table.
	Attribute string

	// Kind is the plot type: boxplot, strip, or bar.
	Kind AnnotationKind

	// Height of the annotation row in pixels; zero means the default.
	Height float64

	// Title of the annotation row; empty derives one from the attribute.
	Title string
}

// title returns the display title, deriving "flight_delay" → "Flight Delay".
func (s AnnotationSpec) title() string {
	if s.Title != "" {
		return s.Title
	}
	words := strings.Split(strings.ReplaceAll(s.Attribute, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (s AnnotationSpec) height() float64 {
	if s.Height > 0 {
		return s.Height
	}
	return DefaultAnnotationHeight
}

// AnnotationRow is one attribute observation tagged with its intersection.
type AnnotationRow struct {
	IntersectionID int     `json:"intersection_id"`
	Value          float64 `json:"value"`
}

// Annotation is a preprocessed annotation ready for assembly.
type Annotation struct {
	Spec AnnotationSpec
	Rows []AnnotationRow
}

// PreprocessAnnotations maps each input row's attribute values onto its
// intersection and validates the annotation specs.
//
// Rows with a missing (NA) attribute value are dropped rather than rejected.
// An attribute that does not exist, or has fewer than two non-null values,
// is a validation error.
func PreprocessAnnotations(tbl *table.Table, sets []string, dt *DerivedTable, specs []AnnotationSpec) ([]Annotation, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if tbl == nil || dt == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table and derived table are required for annotations")
	}

	// Membership vectors were validated during Preprocess; coercion here can
	// only fail if the caller passed a different table.
	members := make([][]bool, len(sets))
	for i, name := range sets {
		col, err := tbl.BoolColumn(name)
		if err != nil {
			return nil, err
		}
		members[i] = col
	}

	idByKey := make(map[string]int, len(dt.All))
	for _, c := range dt.All {
		idByKey[c.Key()] = c.ID
	}

	rowID := make([]int, tbl.NumRows())
	rowKnown := make([]bool, tbl.NumRows())
	key := make([]byte, len(sets))
	for r := 0; r < tbl.NumRows(); r++ {
		for s := range sets {
			if members[s][r] {
				key[s] = '1'
			} else {
				key[s] = '0'
			}
		}
		if id, ok := idByKey[string(key)]; ok {
			rowID[r] = id
			rowKnown[r] = true
		}
	}

	out := make([]Annotation, 0, len(specs))
	for _, spec := range specs {
		switch spec.Kind {
		case AnnotationBoxplot, AnnotationStrip, AnnotationBar:
		default:
			return nil, errors.New(errors.ErrCodeInvalidAnnotation,
				"unsupported annotation kind %q (want boxplot, strip, or bar)", spec.Kind)
		}

		values, present, err := tbl.FloatColumn(spec.Attribute)
		if err != nil {
			return nil, err
		}

		var rows []AnnotationRow
		for r := range values {
			if !present[r] || !rowKnown[r] {
				continue
			}
			rows = append(rows, AnnotationRow{IntersectionID: rowID[r], Value: values[r]})
		}
		if len(rows) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidAnnotation,
				"annotation attribute %q has insufficient non-null values", spec.Attribute)
		}

		out = append(out, Annotation{Spec: spec, Rows: rows})
	}
	return out, nil
}

// annotationView builds one x-aligned annotation row beneath the matrix.
func (a *assembler) annotationView(ann Annotation) vega.Spec {
	title := ann.Spec.title()

	var mark *vega.MarkDef
	y := &vega.ChannelDef{
		Field: "value",
		Type:  vega.Quantitative,
		Title: vega.NoTitle,
	}

	switch ann.Spec.Kind {
	case AnnotationStrip:
		mark = &vega.MarkDef{Type: vega.MarkTick, Color: a.theme.MainColor, Opacity: 0.6}
	case AnnotationBar:
		mark = &vega.MarkDef{Type: vega.MarkBar, Size: a.barSize(), Color: a.theme.MainColor}
		y.Aggregate = "mean"
	default:
		mark = &vega.MarkDef{Type: vega.MarkBoxplot, Color: a.theme.MainColor, Extent: "min-max"}
	}

	return vega.Spec{
		Title:  &vega.Title{Text: title, FontSize: 12, Anchor: "start"},
		Width:  a.matrixWidth(),
		Height: ann.Spec.height(),
		Data:   &vega.Data{Values: ann.Rows},
		Mark:   mark,
		Encoding: &vega.Encoding{
			X: a.xChannel(),
			Y: y,
		},
	}
}
