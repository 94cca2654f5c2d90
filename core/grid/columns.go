package grid

import (
	"math/rand"

	"github.com/asaidimu/go-gridview/core/table"
)

// FilterKind selects the filter widget and predicate family a column supports.
type FilterKind string

// Supported filter kinds.
const (
	FilterText   FilterKind = "text"
	FilterNumber FilterKind = "number"
	FilterDate   FilterKind = "date"
	FilterSet    FilterKind = "set"
)

// ColumnDescriptor is the one-shot per-query column feed consumed by the grid
// client to decide which filter widget to render for each column.
type ColumnDescriptor struct {
	Field  string     `json:"field"`
	Kind   table.Kind `json:"logicalType"`
	Filter FilterKind `json:"filterKind"`
}

// InferOptions configures cardinality-based filter selection for text-like
// columns. Sampling is seeded and bounded so inference is reproducible: the
// same table and options always yield the same descriptors.
type InferOptions struct {
	// SetThreshold is the maximum distinct-value count for which a text
	// column still gets a set filter.
	SetThreshold int
	// SampleSize bounds the distinct count to a uniform random sample when a
	// column's non-null population exceeds it. Columns at or below the bound
	// are counted exactly.
	SampleSize int
	// Seed feeds the sampling source.
	Seed int64
}

// DefaultInferOptions returns the inference defaults: set filters up to 100
// distinct values, sampled above 5000 non-null cells, seed 0.
func DefaultInferOptions() InferOptions {
	return InferOptions{SetThreshold: 100, SampleSize: 5000, Seed: 0}
}

// InferColumns derives the column descriptor feed for a table. Boolean columns
// get a set filter outright, timestamps a date filter, numerics a number
// filter. Text-like columns get a set filter when their distinct-value count,
// exact or sampled per opts, stays at or below the set threshold, and a free
// substring filter otherwise.
//
// The routine is pure and must run once per ResultTable load, never per
// request: its result is sampled and it dictates which predicates the client
// may send for each column.
func InferColumns(t *table.ResultTable, opts InferOptions) []ColumnDescriptor {
	if opts.SetThreshold <= 0 {
		opts.SetThreshold = DefaultInferOptions().SetThreshold
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultInferOptions().SampleSize
	}

	columns := t.Columns()
	out := make([]ColumnDescriptor, 0, len(columns))
	for i, name := range columns {
		kind, _ := t.ColumnKind(name)
		desc := ColumnDescriptor{Field: name, Kind: kind}

		switch kind {
		case table.KindBool:
			desc.Filter = FilterSet
		case table.KindTime:
			desc.Filter = FilterDate
		case table.KindInt, table.KindFloat:
			desc.Filter = FilterNumber
		default:
			desc.Filter = textFilterKind(t, i, opts)
		}
		out = append(out, desc)
	}
	return out
}

// textFilterKind decides between a set filter and a free text filter for one
// text-like column based on its distinct-value cardinality.
func textFilterKind(t *table.ResultTable, col int, opts InferOptions) FilterKind {
	var nonNull []int
	for r := 0; r < t.NumRows(); r++ {
		if !t.At(r, col).IsNull() {
			nonNull = append(nonNull, r)
		}
	}
	if len(nonNull) == 0 {
		return FilterText
	}

	sampled := nonNull
	if len(nonNull) > opts.SampleSize {
		rng := rand.New(rand.NewSource(opts.Seed))
		perm := rng.Perm(len(nonNull))
		sampled = make([]int, opts.SampleSize)
		for i := 0; i < opts.SampleSize; i++ {
			sampled[i] = nonNull[perm[i]]
		}
	}

	distinct := make(map[string]struct{}, opts.SetThreshold+1)
	for _, r := range sampled {
		distinct[t.At(r, col).String()] = struct{}{}
		if len(distinct) > opts.SetThreshold {
			return FilterText
		}
	}
	return FilterSet
}
