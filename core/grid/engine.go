package grid

import (
	"sort"
	"strings"

	"github.com/asaidimu/go-gridview/core/table"
	"go.uber.org/zap"
)

// EngineOptions configures engine behavior that is contract, not tuning.
type EngineOptions struct {
	// ZeroRowCount is the row count reported when a view matches nothing.
	// The consuming paginator renders a zero-count view as a broken page, so
	// the historical contract reports 1 instead of 0. It is a named option
	// rather than a buried constant so a client without that quirk can ask
	// for the honest number.
	ZeroRowCount int
}

// DefaultEngineOptions returns the engine defaults.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{ZeroRowCount: 1}
}

// Engine is the single authority mapping a ResultTable plus one grid request
// to the matching row count and the requested row slice. It is stateless;
// the view it produces is retained by the caller (the session) for export.
type Engine struct {
	options EngineOptions
	logger  *zap.Logger
}

// NewEngine creates an engine. A nil logger substitutes a no-op logger.
func NewEngine(options EngineOptions, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.ZeroRowCount <= 0 {
		options.ZeroRowCount = DefaultEngineOptions().ZeroRowCount
	}
	return &Engine{options: options, logger: logger}
}

// View is the filtered-and-sorted projection of a ResultTable: the full
// pre-window row sequence last computed for a request. It is authoritative
// for "what the user is currently looking at" and is what export snapshots,
// even though the client only ever sees one window of it.
type View struct {
	table *table.ResultTable
	rows  []int
}

// Len returns the number of matching rows in the view.
func (v *View) Len() int {
	return len(v.rows)
}

// Columns returns the view's ordered column names.
func (v *View) Columns() []string {
	return v.table.Columns()
}

// Cell returns the cell at a view position for a named column.
func (v *View) Cell(row int, column string) (table.Value, bool) {
	return v.table.Cell(v.rows[row], column)
}

// RowMap renders one view row as a column-to-cell mapping.
func (v *View) RowMap(row int) map[string]table.Value {
	return v.table.RowMap(v.rows[row])
}

// Evaluate runs the full pipeline for one request: global search, then the
// structured filter model, then the sort model. The pipeline order is part of
// the contract since it determines the reported row count. The returned skips
// name every filter clause that could not be evaluated and was treated as
// "no filter on this column".
func (e *Engine) Evaluate(t *table.ResultTable, req *RowWindowRequest) (*View, []*FilterEvaluationError) {
	rows := make([]int, t.NumRows())
	for i := range rows {
		rows[i] = i
	}

	rows = applySearch(t, rows, req.Search)
	rows, skips := applyFilterModel(t, rows, req.FilterModel)
	for _, skip := range skips {
		e.logger.Warn("Skipped unevaluable filter clause",
			zap.String("column", skip.Column),
			zap.String("reason", skip.Reason))
	}
	rows = applySort(t, rows, req.SortModel)

	return &View{table: t, rows: rows}, skips
}

// Window slices a view to the request's half-open row range and pairs it with
// the row count. A window starting at or beyond the end of the view yields an
// empty slice, not an error; an empty view reports the configured
// ZeroRowCount.
func (e *Engine) Window(view *View, startRow, endRow int) *RowWindowResponse {
	count := view.Len()
	if startRow < 0 {
		startRow = 0
	}
	if endRow > count {
		endRow = count
	}

	data := []map[string]table.Value{}
	for r := startRow; r < endRow; r++ {
		data = append(data, view.RowMap(r))
	}

	if count == 0 {
		count = e.options.ZeroRowCount
	}
	return &RowWindowResponse{RowData: data, RowCount: count}
}

// Serve evaluates a request and windows the result in one call.
func (e *Engine) Serve(t *table.ResultTable, req *RowWindowRequest) (*RowWindowResponse, *View, []*FilterEvaluationError) {
	view, skips := e.Evaluate(t, req)
	return e.Window(view, req.StartRow, req.EndRow), view, skips
}

// applySearch keeps rows where any column's string form contains the search
// term, case-insensitively. It runs before structured filters.
func applySearch(t *table.ResultTable, rows []int, term string) []int {
	term = strings.TrimSpace(term)
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)

	out := make([]int, 0, len(rows))
	for _, r := range rows {
		for c := 0; c < t.NumColumns(); c++ {
			cell := t.At(r, c)
			if cell.IsNull() {
				continue
			}
			if strings.Contains(strings.ToLower(cell.String()), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// applySort orders rows by the sort model with a stable multi-key sort. Ties
// keep their original table order, null cells go last in either direction,
// and an empty sort model leaves the natural query-result order untouched.
func applySort(t *table.ResultTable, rows []int, entries []SortEntry) []int {
	type sortKey struct {
		col  int
		desc bool
	}
	keys := make([]sortKey, 0, len(entries))
	for _, entry := range entries {
		if col, ok := t.ColumnIndex(entry.ColID); ok {
			keys = append(keys, sortKey{col: col, desc: entry.Sort == SortDesc})
		}
	}
	if len(keys) == 0 {
		return rows
	}

	sorted := append([]int(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, key := range keys {
			a := t.At(sorted[i], key.col)
			b := t.At(sorted[j], key.col)

			switch {
			case a.IsNull() && b.IsNull():
				continue
			case a.IsNull():
				return false
			case b.IsNull():
				return true
			}

			cmp, ok := a.Compare(b)
			if !ok {
				// Mixed-kind column; fall back to the string form.
				as, bs := a.String(), b.String()
				if as == bs {
					continue
				}
				cmp = 1
				if as < bs {
					cmp = -1
				}
			}
			if cmp == 0 {
				continue
			}
			if key.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return sorted
}
