// Package upset computes set-intersection statistics from tabular membership
// data and assembles them into an interactive Vega-Lite chart specification.
//
// The package is a pure two-stage pipeline:
//
//  1. Preprocess derives one row per distinct membership combination
//     (intersection) from a wide boolean matrix: size, degree, and per-set
//     membership, sorted deterministically.
//  2. Assemble composes three chart components (intersection-size bars,
//     set-size bars, and a connectivity matrix) over the derived table, wires
//     shared interactive selections between them, and exports the result as a
//     serializable Vega-Lite specification.
//
// Neither stage keeps state, performs I/O, or mutates its inputs. All drawing
// and runtime interactivity are delegated to Vega-Lite compliant viewers.
package upset

import (
	"sort"
	"strings"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/table"
)

// Combination is one distinct pattern of set memberships present in the
// input, with its aggregate statistics.
type Combination struct {
	// ID is the display ordinal, assigned after sorting (0-based). Stable
	// for a given input and configuration.
	ID int

	// Members holds the membership flag per set, aligned with Meta.Sets.
	Members []bool

	// Sets lists the names of participating sets in input set order.
	Sets []string

	// Degree is the number of participating sets.
	Degree int

	// Count is the number of input rows with exactly this membership pattern.
	Count int
}

// Key returns the canonical identity of the combination: its membership
// pattern rendered as a bit string in input set order.
func (c Combination) Key() string {
	var b strings.Builder
	b.Grow(len(c.Members))
	for _, m := range c.Members {
		if m {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Label returns a human-readable name such as "A ∩ B", or "(none)" for the
// empty combination.
func (c Combination) Label() string {
	if len(c.Sets) == 0 {
		return "(none)"
	}
	return strings.Join(c.Sets, " ∩ ")
}

// Meta carries per-set metadata shared by all chart components.
type Meta struct {
	// Sets is the ordered list of set column names.
	Sets []string

	// Abbre is the display abbreviation per set (defaults to the full name).
	Abbre []string

	// SetOrder maps a set name to its 1-based display position.
	SetOrder map[string]int

	// TotalRows is the input row count.
	TotalRows int

	// SetTotals maps a set name to the number of rows where it is true.
	SetTotals map[string]int
}

// DerivedTable is the per-combination aggregation computed by Preprocess.
type DerivedTable struct {
	// All holds every combination present in the input (including the empty
	// one unless DropEmpty), sorted per the configuration. Totals and
	// invariants are stated over this slice.
	All []Combination

	// Display holds the combinations retained for display: All minus
	// combinations excluded by MaxDegree, truncated to MaxCombinations.
	Display []Combination
}

// TotalCount returns the sum of combination counts over the full grouping.
// Unless DropEmpty was set, this equals the input row count.
func (dt *DerivedTable) TotalCount() int {
	total := 0
	for _, c := range dt.All {
		total += c.Count
	}
	return total
}

// Preprocess validates the input, coerces set columns to booleans, groups
// rows by their membership pattern, and sorts the resulting combinations.
//
// The caller's table is never modified. The same table and configuration
// always produce identical output, including ordering.
func Preprocess(tbl *table.Table, sets []string, cfg Config) (*DerivedTable, Meta, error) {
	if tbl == nil {
		return nil, Meta{}, errors.New(errors.ErrCodeInvalidInput, "table cannot be nil")
	}
	if err := errors.ValidateSetNames(sets, tbl.Columns()); err != nil {
		return nil, Meta{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, Meta{}, err
	}

	// Coerce every set column up front so coercion errors surface before any
	// aggregation work.
	members := make([][]bool, len(sets))
	for i, name := range sets {
		col, err := tbl.BoolColumn(name)
		if err != nil {
			return nil, Meta{}, err
		}
		members[i] = col
	}

	meta := buildMeta(sets, cfg, members, tbl.NumRows())

	groups := groupRows(sets, members, tbl.NumRows())
	if cfg.DropEmpty {
		groups = dropEmpty(groups)
	}
	sortCombinations(groups, cfg)
	for i := range groups {
		groups[i].ID = i
	}

	dt := &DerivedTable{
		All:     groups,
		Display: displayRows(groups, cfg),
	}
	return dt, meta, nil
}

// buildMeta computes set-level metadata: display order, abbreviations, and
// per-set totals.
func buildMeta(sets []string, cfg Config, members [][]bool, rows int) Meta {
	abbre := cfg.Abbreviations
	if len(abbre) != len(sets) {
		// Mismatched abbreviation lists are dropped, not fatal.
		abbre = append([]string(nil), sets...)
	}

	order := make(map[string]int, len(sets))
	totals := make(map[string]int, len(sets))
	for i, name := range sets {
		order[name] = i + 1
		n := 0
		for _, m := range members[i] {
			if m {
				n++
			}
		}
		totals[name] = n
	}

	return Meta{
		Sets:      append([]string(nil), sets...),
		Abbre:     append([]string(nil), abbre...),
		SetOrder:  order,
		TotalRows: rows,
		SetTotals: totals,
	}
}

// groupRows assigns every input row to exactly one membership pattern and
// counts group sizes.
func groupRows(sets []string, members [][]bool, rows int) []Combination {
	counts := make(map[string]int)
	patterns := make(map[string][]bool)

	key := make([]byte, len(sets))
	for r := 0; r < rows; r++ {
		for s := range sets {
			if members[s][r] {
				key[s] = '1'
			} else {
				key[s] = '0'
			}
		}
		k := string(key)
		counts[k]++
		if _, ok := patterns[k]; !ok {
			pattern := make([]bool, len(sets))
			for s := range sets {
				pattern[s] = key[s] == '1'
			}
			patterns[k] = pattern
		}
	}

	out := make([]Combination, 0, len(counts))
	for k, count := range counts {
		pattern := patterns[k]
		var names []string
		degree := 0
		for s, m := range pattern {
			if m {
				names = append(names, sets[s])
				degree++
			}
		}
		out = append(out, Combination{
			Members: pattern,
			Sets:    names,
			Degree:  degree,
			Count:   count,
		})
	}
	return out
}

// dropEmpty removes the all-sets-false combination.
func dropEmpty(groups []Combination) []Combination {
	out := groups[:0]
	for _, g := range groups {
		if g.Degree > 0 {
			out = append(out, g)
		}
	}
	return out
}

// sortCombinations orders combinations by the configured key and order. Ties
// are broken by the canonical membership key so repeated runs produce
// byte-identical ordering: combinations containing earlier sets sort first.
func sortCombinations(groups []Combination, cfg Config) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]

		var ka, kb int
		if cfg.SortBy == SortByDegree {
			ka, kb = a.Degree, b.Degree
		} else {
			ka, kb = a.Count, b.Count
		}
		if ka != kb {
			if cfg.SortOrder == Ascending {
				return ka < kb
			}
			return ka > kb
		}
		// Canonical tie-break is independent of the sort order.
		return a.Key() > b.Key()
	})
}

// displayRows applies the display limits to the sorted combinations.
func displayRows(groups []Combination, cfg Config) []Combination {
	out := make([]Combination, 0, len(groups))
	for _, g := range groups {
		if cfg.MaxDegree > 0 && g.Degree > cfg.MaxDegree {
			continue
		}
		out = append(out, g)
	}
	if cfg.MaxCombinations > 0 && len(out) > cfg.MaxCombinations {
		out = out[:cfg.MaxCombinations]
	}
	return out
}

// LongRow is the melted (combination × set) form of the derived table that
// the chart components bind to.
type LongRow struct {
	IntersectionID int    `json:"intersection_id"`
	Count          int    `json:"count"`
	Degree         int    `json:"degree"`
	Set            string `json:"set"`
	IsIntersect    int    `json:"is_intersect"`
	SetAbbre       string `json:"set_abbre"`
	SetOrder       int    `json:"set_order"`
}

// Long melts the display combinations into one row per (combination, set)
// pair, carrying the set ordering and abbreviations used by the components.
func (dt *DerivedTable) Long(meta Meta) []LongRow {
	rows := make([]LongRow, 0, len(dt.Display)*len(meta.Sets))
	for _, c := range dt.Display {
		for s, name := range meta.Sets {
			isMember := 0
			if c.Members[s] {
				isMember = 1
			}
			rows = append(rows, LongRow{
				IntersectionID: c.ID,
				Count:          c.Count,
				Degree:         c.Degree,
				Set:            name,
				IsIntersect:    isMember,
				SetAbbre:       meta.Abbre[s],
				SetOrder:       meta.SetOrder[name],
			})
		}
	}
	return rows
}
