// Package table is the input boundary of setplot.
//
// It wraps a gota DataFrame behind a minimal capability set: column access by
// name, row counting, and typed coercion of membership columns to booleans.
// Columnar sources (CSV, JSON records, raw string records) are converted to
// the row-labeled DataFrame form at this boundary; nothing outside this
// package touches gota directly.
//
// # Coercion
//
// Set membership columns accept an enumerated list of source representations:
// booleans, the integers 0/1, the floats 0.0/1.0, and the string tokens
// "true"/"false"/"t"/"f"/"1"/"0" (case-insensitive). The empty string and NA
// cells count as non-membership, matching sparse CSV exports. Every other
// value is rejected with a COERCION error naming the column and value; there
// is no silent coercion.
package table

import (
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/setplot/setplot/pkg/errors"
)

// Table is a read-only view over caller-provided tabular data.
type Table struct {
	df dataframe.DataFrame
}

// FromDataFrame wraps an existing gota DataFrame. The frame is not copied;
// callers must not mutate it while the Table is in use.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// FromCSV reads a CSV document into a Table. Read errors from the dataframe
// library pass through as-is.
func FromCSV(r io.Reader, options ...dataframe.LoadOption) (*Table, error) {
	return FromDataFrame(dataframe.ReadCSV(r, options...))
}

// FromJSON reads an array of JSON records into a Table.
func FromJSON(r io.Reader, options ...dataframe.LoadOption) (*Table, error) {
	return FromDataFrame(dataframe.ReadJSON(r, options...))
}

// FromRecords builds a Table from raw string records. The first record is the
// header row.
func FromRecords(records [][]string, options ...dataframe.LoadOption) (*Table, error) {
	return FromDataFrame(dataframe.LoadRecords(records, options...))
}

// DataFrame exposes the underlying gota DataFrame for callers that need to
// perform their own tabular operations.
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return t.df.Nrow()
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// BoolColumn coerces the named column to a boolean membership vector.
// Returns a COERCION error for any cell outside the accepted representations,
// and an INVALID_SETS error if the column does not exist.
func (t *Table) BoolColumn(name string) ([]bool, error) {
	if !t.HasColumn(name) {
		return nil, errors.New(errors.ErrCodeInvalidSets, "set column %q not found in table", name)
	}

	col := t.df.Col(name)
	out := make([]bool, col.Len())
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		v, err := coerceBool(name, elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// FloatColumn returns the named column as floats along with a presence mask
// (false for NA cells). Used by annotation preprocessing, where missing
// attribute values are dropped rather than rejected.
func (t *Table) FloatColumn(name string) ([]float64, []bool, error) {
	if !t.HasColumn(name) {
		return nil, nil, errors.New(errors.ErrCodeInvalidAnnotation, "annotation attribute %q not found in table", name)
	}

	col := t.df.Col(name)
	values := make([]float64, col.Len())
	present := make([]bool, col.Len())
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if elem.IsNA() {
			continue
		}
		values[i] = elem.Float()
		present[i] = true
	}
	return values, present, nil
}

// StringColumn returns the named column rendered as strings, or nil if the
// column does not exist.
func (t *Table) StringColumn(name string) []string {
	if !t.HasColumn(name) {
		return nil
	}
	col := t.df.Col(name)
	out := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		out[i] = col.Elem(i).String()
	}
	return out
}

// CandidateSetColumns returns the columns whose every cell is coercible to a
// boolean. The CLI column picker uses this to offer sensible defaults.
func (t *Table) CandidateSetColumns() []string {
	var out []string
	for _, name := range t.df.Names() {
		if _, err := t.BoolColumn(name); err == nil {
			out = append(out, name)
		}
	}
	return out
}

// coerceBool converts a single cell to a boolean membership value.
func coerceBool(column string, elem series.Element) (bool, error) {
	if elem.IsNA() {
		return false, nil
	}

	switch elem.Type() {
	case series.Bool:
		v, err := elem.Bool()
		if err != nil {
			return false, errors.New(errors.ErrCodeCoercion,
				"column %q: value %q is not a boolean", column, elem.String())
		}
		return v, nil
	case series.Int:
		n, err := elem.Int()
		if err != nil {
			return false, errors.New(errors.ErrCodeCoercion,
				"column %q: value %q is not an integer", column, elem.String())
		}
		switch n {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, errors.New(errors.ErrCodeCoercion,
			"column %q: integer %d outside {0, 1}", column, n)
	case series.Float:
		f := elem.Float()
		switch f {
		case 0.0:
			return false, nil
		case 1.0:
			return true, nil
		}
		return false, errors.New(errors.ErrCodeCoercion,
			"column %q: float %g outside {0.0, 1.0}", column, f)
	default:
		return coerceToken(column, elem.String())
	}
}

// coerceToken interprets string cells. Only the recognized truthy/falsy
// tokens are accepted.
func coerceToken(column, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t":
		return true, nil
	case "0", "false", "f", "":
		return false, nil
	}
	return false, errors.New(errors.ErrCodeCoercion,
		"column %q: cannot interpret %q as set membership", column, raw)
}
