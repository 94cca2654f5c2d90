package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asaidimu/go-gridview/core/table"
)

// FilterEvaluationError records why a single filter clause could not be
// evaluated. The engine never propagates it: the failing clause is skipped,
// leaving that column unfiltered, because partial or half-typed filter state
// is a normal transient condition in an interactive grid. Skips are returned
// alongside the result and logged so silently-wrong counts stay diagnosable.
type FilterEvaluationError struct {
	Column string
	Reason string
}

func (e *FilterEvaluationError) Error() string {
	return fmt.Sprintf("filter on column %q skipped: %s", e.Column, e.Reason)
}

// applyFilterModel intersects every column's active clause over the candidate
// row set. Columns evaluate in name order so skip reporting is deterministic.
// Unevaluable clauses are collected as skips and leave their column
// unfiltered.
func applyFilterModel(t *table.ResultTable, rows []int, model map[string]FilterClause) ([]int, []*FilterEvaluationError) {
	if len(model) == 0 {
		return rows, nil
	}

	columns := make([]string, 0, len(model))
	for name := range model {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	var skips []*FilterEvaluationError
	for _, name := range columns {
		filtered, err := applyClause(t, rows, name, model[name])
		if err != nil {
			skips = append(skips, &FilterEvaluationError{Column: name, Reason: err.Error()})
			continue
		}
		rows = filtered
	}
	return rows, skips
}

// applyClause evaluates one column's clause against the candidate rows. A
// compound AND applies the second condition to the survivors of the first; a
// compound OR is the union of the two conditions' row sets, deduplicated and
// kept in original table order.
func applyClause(t *table.ResultTable, rows []int, column string, clause FilterClause) ([]int, error) {
	col, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("unknown column")
	}

	if clause.IsCompound() {
		switch clause.Operator {
		case JoinAnd:
			first, err := applyCondition(t, rows, col, *clause.Condition1)
			if err != nil {
				return nil, err
			}
			return applyCondition(t, first, col, *clause.Condition2)
		case JoinOr:
			first, err := applyCondition(t, rows, col, *clause.Condition1)
			if err != nil {
				return nil, err
			}
			second, err := applyCondition(t, rows, col, *clause.Condition2)
			if err != nil {
				return nil, err
			}
			return unionRows(first, second), nil
		default:
			return nil, fmt.Errorf("unknown join operator %q", clause.Operator)
		}
	}
	return applyCondition(t, rows, col, clause.FilterCondition)
}

// applyCondition evaluates a single predicate over the candidate rows.
func applyCondition(t *table.ResultTable, rows []int, col int, cond FilterCondition) ([]int, error) {
	pred, err := buildPredicate(t, col, cond)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, len(rows))
	for _, r := range rows {
		if pred(t.At(r, col)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// buildPredicate turns a wire condition into a cell predicate, coercing
// operands into the column's native kind up front. A condition whose operands
// cannot be coerced, or whose required fields are missing, fails here and
// becomes a skip.
func buildPredicate(t *table.ResultTable, col int, cond FilterCondition) (func(table.Value) bool, error) {
	// The set filter carries no condition type, only the allow-list.
	if cond.FilterType == "set" {
		allowed := make(map[string]struct{}, len(cond.Values))
		for _, v := range cond.Values {
			allowed[v] = struct{}{}
		}
		return func(cell table.Value) bool {
			if cell.IsNull() {
				return false
			}
			_, ok := allowed[cell.String()]
			return ok
		}, nil
	}

	switch cond.Type {
	case ConditionBlank:
		return func(cell table.Value) bool { return cell.IsNull() }, nil
	case ConditionNotBlank:
		return func(cell table.Value) bool { return !cell.IsNull() }, nil

	case ConditionContains, ConditionNotContains,
		ConditionStartsWith, ConditionNotStartsWith,
		ConditionEndsWith, ConditionNotEndsWith:
		term, ok := cond.Filter.(string)
		if !ok {
			return nil, fmt.Errorf("%s requires a string operand, got %T", cond.Type, cond.Filter)
		}
		return textPredicate(cond.Type, term), nil

	case ConditionEquals, ConditionNotEqual,
		ConditionLessThan, ConditionLessThanOrEqual,
		ConditionGreaterThan, ConditionGreaterThanOrEqual:
		operand, err := operandValue(t, col, cond, false)
		if err != nil {
			return nil, err
		}
		return orderPredicate(cond.Type, operand), nil

	case ConditionInRange:
		lo, err := operandValue(t, col, cond, false)
		if err != nil {
			return nil, err
		}
		hi, err := operandValue(t, col, cond, true)
		if err != nil {
			return nil, err
		}
		return func(cell table.Value) bool {
			lower, okLo := cell.Compare(lo)
			upper, okHi := cell.Compare(hi)
			return okLo && okHi && lower >= 0 && upper <= 0
		}, nil

	default:
		return nil, fmt.Errorf("unknown condition type %q", cond.Type)
	}
}

// textPredicate builds a case-sensitive substring/prefix/suffix test on the
// cell's string form. Null cells fail every variant, negated ones included.
func textPredicate(op ConditionType, term string) func(table.Value) bool {
	return func(cell table.Value) bool {
		if cell.IsNull() {
			return false
		}
		s := cell.String()
		switch op {
		case ConditionContains:
			return strings.Contains(s, term)
		case ConditionNotContains:
			return !strings.Contains(s, term)
		case ConditionStartsWith:
			return strings.HasPrefix(s, term)
		case ConditionNotStartsWith:
			return !strings.HasPrefix(s, term)
		case ConditionEndsWith:
			return strings.HasSuffix(s, term)
		case ConditionNotEndsWith:
			return !strings.HasSuffix(s, term)
		default:
			return false
		}
	}
}

// orderPredicate builds an equality or ordering test against a pre-coerced
// operand. Comparison happens in the column's native kind; null cells fail
// everything, notEqual included.
func orderPredicate(op ConditionType, operand table.Value) func(table.Value) bool {
	return func(cell table.Value) bool {
		cmp, ok := cell.Compare(operand)
		if !ok {
			return false
		}
		switch op {
		case ConditionEquals:
			return cmp == 0
		case ConditionNotEqual:
			return cmp != 0
		case ConditionLessThan:
			return cmp < 0
		case ConditionLessThanOrEqual:
			return cmp <= 0
		case ConditionGreaterThan:
			return cmp > 0
		case ConditionGreaterThanOrEqual:
			return cmp >= 0
		default:
			return false
		}
	}
}

// operandValue coerces a condition operand into the column's native kind.
// Date conditions read DateFrom/DateTo, everything else Filter/FilterTo.
func operandValue(t *table.ResultTable, col int, cond FilterCondition, upper bool) (table.Value, error) {
	kind := t.KindAt(col)

	if kind == table.KindTime {
		raw := cond.DateFrom
		if upper {
			raw = cond.DateTo
		}
		if raw == "" {
			return table.Null(), fmt.Errorf("missing date operand")
		}
		ts, ok := table.ParseTime(raw)
		if !ok {
			return table.Null(), fmt.Errorf("cannot parse %q as a date", raw)
		}
		return table.Time(ts), nil
	}

	raw := cond.Filter
	if upper {
		raw = cond.FilterTo
	}
	if raw == nil {
		return table.Null(), fmt.Errorf("missing operand")
	}

	switch kind {
	case table.KindInt, table.KindFloat:
		f, ok := ToFloat64(raw)
		if !ok {
			return table.Null(), fmt.Errorf("cannot coerce %v (%T) to a number", raw, raw)
		}
		return table.Float(f), nil
	case table.KindBool:
		switch v := raw.(type) {
		case bool:
			return table.Bool(v), nil
		case string:
			return table.Bool(strings.EqualFold(v, "true")), nil
		default:
			return table.Null(), fmt.Errorf("cannot coerce %v (%T) to a boolean", raw, raw)
		}
	default:
		if s, ok := raw.(string); ok {
			return table.Text(s), nil
		}
		return table.Text(fmt.Sprintf("%v", raw)), nil
	}
}

// unionRows merges two ascending row-index sets, deduplicating rows matched by
// both sides, so a compound OR preserves original table order.
func unionRows(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
