// Package grid implements the server-side virtual table engine: it holds a
// materialized ResultTable and serves windowed, searched, filtered, and sorted
// views of it to an infinite-scroll grid client. The request and response
// shapes follow the grid wire contract (filterModel, sortModel, row windows)
// so the package can sit directly behind a row-request endpoint.
package grid

import (
	"github.com/asaidimu/go-gridview/core/table"
)

// ConditionType identifies a single filter predicate on one column.
type ConditionType string

// Supported filter predicates.
const (
	ConditionEquals             ConditionType = "equals"
	ConditionNotEqual           ConditionType = "notEqual"
	ConditionLessThan           ConditionType = "lessThan"
	ConditionLessThanOrEqual    ConditionType = "lessThanOrEqual"
	ConditionGreaterThan        ConditionType = "greaterThan"
	ConditionGreaterThanOrEqual ConditionType = "greaterThanOrEqual"
	ConditionContains           ConditionType = "contains"
	ConditionNotContains        ConditionType = "notContains"
	ConditionStartsWith         ConditionType = "startsWith"
	ConditionNotStartsWith      ConditionType = "notStartsWith"
	ConditionEndsWith           ConditionType = "endsWith"
	ConditionNotEndsWith        ConditionType = "notEndsWith"
	ConditionInRange            ConditionType = "inRange"
	ConditionBlank              ConditionType = "blank"
	ConditionNotBlank           ConditionType = "notBlank"
)

// JoinOperator combines the two conditions of a compound filter clause.
type JoinOperator string

// Supported join operators.
const (
	JoinAnd JoinOperator = "AND"
	JoinOr  JoinOperator = "OR"
)

// FilterCondition is a single predicate as sent by the grid client. Which
// fields are populated depends on FilterType: text and number conditions use
// Filter/FilterTo, date conditions use DateFrom/DateTo, and set conditions
// carry the allow-list in Values.
type FilterCondition struct {
	FilterType string        `json:"filterType,omitempty"`
	Type       ConditionType `json:"type,omitempty"`
	Filter     any           `json:"filter,omitempty"`
	FilterTo   any           `json:"filterTo,omitempty"`
	DateFrom   string        `json:"dateFrom,omitempty"`
	DateTo     string        `json:"dateTo,omitempty"`
	Values     []string      `json:"values,omitempty"`
}

// FilterClause is the per-column entry of a filter model: either a single
// condition (the embedded FilterCondition) or a compound of two conditions
// joined with AND or OR.
type FilterClause struct {
	FilterCondition
	Operator   JoinOperator     `json:"operator,omitempty"`
	Condition1 *FilterCondition `json:"condition1,omitempty"`
	Condition2 *FilterCondition `json:"condition2,omitempty"`
}

// IsCompound reports whether the clause carries two joined conditions.
func (c FilterClause) IsCompound() bool {
	return c.Operator != "" && c.Condition1 != nil && c.Condition2 != nil
}

// SortDirection specifies the direction of a sort entry.
type SortDirection string

// Supported sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortEntry is one column of a multi-column sort specification. Entries apply
// in listed order; ties fall back to the table's natural order.
type SortEntry struct {
	ColID string        `json:"colId"`
	Sort  SortDirection `json:"sort"`
}

// RowWindowRequest is one interactive request from the grid client: a
// half-open row window into the view produced by applying the search term,
// the filter model, and the sort model to the current ResultTable, in that
// order.
type RowWindowRequest struct {
	StartRow    int                     `json:"startRow"`
	EndRow      int                     `json:"endRow"`
	Search      string                  `json:"search,omitempty"`
	FilterModel map[string]FilterClause `json:"filterModel,omitempty"`
	SortModel   []SortEntry             `json:"sortModel,omitempty"`
}

// RowWindowResponse carries the requested slice and the total matching row
// count the client paginator sizes itself with.
type RowWindowResponse struct {
	RowData  []map[string]table.Value `json:"rowData"`
	RowCount int                      `json:"rowCount"`
}
