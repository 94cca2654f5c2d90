// Fluent construction of grid requests. The builder mirrors what a grid
// client sends over the wire, which makes programmatic callers and tests
// readable without hand-writing filter-model maps.
package grid

// RequestBuilder provides a fluent API for building RowWindowRequest
// structures step by step: window, search term, per-column filters, and the
// sort model, culminating in a final request object.
type RequestBuilder struct {
	req RowWindowRequest
}

// NewRequestBuilder creates a new, empty request builder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// Build returns the constructed request.
func (rb *RequestBuilder) Build() *RowWindowRequest {
	req := rb.req
	return &req
}

// Reset clears all configuration, returning the builder to its initial state.
func (rb *RequestBuilder) Reset() *RequestBuilder {
	rb.req = RowWindowRequest{}
	return rb
}

// Window sets the half-open row range to request.
func (rb *RequestBuilder) Window(startRow, endRow int) *RequestBuilder {
	rb.req.StartRow = startRow
	rb.req.EndRow = endRow
	return rb
}

// Search sets the global search term.
func (rb *RequestBuilder) Search(term string) *RequestBuilder {
	rb.req.Search = term
	return rb
}

// SortBy appends a sort entry. Entries apply in the order they are added.
func (rb *RequestBuilder) SortBy(column string, direction SortDirection) *RequestBuilder {
	rb.req.SortModel = append(rb.req.SortModel, SortEntry{ColID: column, Sort: direction})
	return rb
}

// Where begins a filter condition on a column.
func (rb *RequestBuilder) Where(column string) *ConditionBuilder {
	return &ConditionBuilder{parent: rb, column: column}
}

// WhereBoth sets a compound AND clause of two conditions on a column.
func (rb *RequestBuilder) WhereBoth(column string, first, second FilterCondition) *RequestBuilder {
	return rb.setClause(column, FilterClause{Operator: JoinAnd, Condition1: &first, Condition2: &second})
}

// WhereEither sets a compound OR clause of two conditions on a column.
func (rb *RequestBuilder) WhereEither(column string, first, second FilterCondition) *RequestBuilder {
	return rb.setClause(column, FilterClause{Operator: JoinOr, Condition1: &first, Condition2: &second})
}

func (rb *RequestBuilder) setClause(column string, clause FilterClause) *RequestBuilder {
	if rb.req.FilterModel == nil {
		rb.req.FilterModel = make(map[string]FilterClause)
	}
	rb.req.FilterModel[column] = clause
	return rb
}

// ConditionBuilder builds a single filter condition for one column.
type ConditionBuilder struct {
	parent *RequestBuilder
	column string
}

func (cb *ConditionBuilder) add(cond FilterCondition) *RequestBuilder {
	return cb.parent.setClause(cb.column, FilterClause{FilterCondition: cond})
}

// Equals adds an equality condition.
func (cb *ConditionBuilder) Equals(value any) *RequestBuilder {
	return cb.add(FilterCondition{Type: ConditionEquals, Filter: value})
}

// NotEqual adds a not-equal condition.
func (cb *ConditionBuilder) NotEqual(value any) *RequestBuilder {
	return cb.add(FilterCondition{Type: ConditionNotEqual, Filter: value})
}

// LessThan adds a less-than condition.
func (cb *ConditionBuilder) LessThan(value any) *RequestBuilder {
	return cb.add(FilterCondition{Type: ConditionLessThan, Filter: value})
}

// GreaterThan adds a greater-than condition.
func (cb *ConditionBuilder) GreaterThan(value any) *RequestBuilder {
	return cb.add(FilterCondition{Type: ConditionGreaterThan, Filter: value})
}

// Contains adds a case-sensitive substring condition.
func (cb *ConditionBuilder) Contains(term string) *RequestBuilder {
	return cb.add(FilterCondition{FilterType: "text", Type: ConditionContains, Filter: term})
}

// StartsWith adds a prefix condition.
func (cb *ConditionBuilder) StartsWith(term string) *RequestBuilder {
	return cb.add(FilterCondition{FilterType: "text", Type: ConditionStartsWith, Filter: term})
}

// EndsWith adds a suffix condition.
func (cb *ConditionBuilder) EndsWith(term string) *RequestBuilder {
	return cb.add(FilterCondition{FilterType: "text", Type: ConditionEndsWith, Filter: term})
}

// InRange adds an inclusive numeric range condition.
func (cb *ConditionBuilder) InRange(from, to any) *RequestBuilder {
	return cb.add(FilterCondition{FilterType: "number", Type: ConditionInRange, Filter: from, FilterTo: to})
}

// InDateRange adds an inclusive date range condition.
func (cb *ConditionBuilder) InDateRange(from, to string) *RequestBuilder {
	return cb.add(FilterCondition{FilterType: "date", Type: ConditionInRange, DateFrom: from, DateTo: to})
}

// Blank adds a null-only condition.
func (cb *ConditionBuilder) Blank() *RequestBuilder {
	return cb.add(FilterCondition{Type: ConditionBlank})
}

// NotBlank adds a non-null condition.
func (cb *ConditionBuilder) NotBlank() *RequestBuilder {
	return cb.add(FilterCondition{Type: ConditionNotBlank})
}

// In adds a set-membership condition against an explicit allow-list.
func (cb *ConditionBuilder) In(values ...string) *RequestBuilder {
	return cb.add(FilterCondition{FilterType: "set", Values: values})
}
