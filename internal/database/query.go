package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FilterOperator is a SQL comparison operator.
type FilterOperator string

// Supported operators.
const (
	OpEqual    FilterOperator = "="
	OpNotEqual FilterOperator = "!="
	OpIn       FilterOperator = "IN"
	OpNotIn    FilterOperator = "NOT IN"
)

func (o FilterOperator) String() string { return string(o) }

// Filter is one column condition of a Query.
type Filter struct {
	field    string
	operator FilterOperator
	value    any
}

// Field returns the column name.
func (f Filter) Field() string { return f.field }

// Operator returns the comparison operator.
func (f Filter) Operator() FilterOperator { return f.operator }

// Value returns the compared value.
func (f Filter) Value() any { return f.value }

func (f Filter) expression() clause.Expression {
	column := clause.Column{Name: f.field}
	switch f.operator {
	case OpNotEqual:
		return clause.Neq{Column: column, Value: f.value}
	case OpIn:
		return clause.Expr{SQL: "? IN ?", Vars: []any{column, f.value}}
	case OpNotIn:
		return clause.Expr{SQL: "? NOT IN ?", Vars: []any{column, f.value}}
	default:
		return clause.Eq{Column: column, Value: f.value}
	}
}

// SortDirection orders results ascending or descending.
type SortDirection bool

// Sort directions.
const (
	SortAsc  SortDirection = false
	SortDesc SortDirection = true
)

func (s SortDirection) String() string {
	if s == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// OrderBy is one ordering term of a Query.
type OrderBy struct {
	field     string
	direction SortDirection
}

// Field returns the column name.
func (o OrderBy) Field() string { return o.field }

// Direction returns the sort direction.
func (o OrderBy) Direction() SortDirection { return o.direction }

// Query collects filters and ordering for a Repository call. Queries are
// values; every builder returns a copy and never shares backing arrays.
type Query struct {
	filters []Filter
	orders  []OrderBy
}

// NewQuery returns an empty Query matching every row.
func NewQuery() Query { return Query{} }

func (q Query) where(field string, op FilterOperator, value any) Query {
	q.filters = append(q.Filters(), Filter{field: field, operator: op, value: value})
	return q
}

func (q Query) order(field string, dir SortDirection) Query {
	q.orders = append(q.Orders(), OrderBy{field: field, direction: dir})
	return q
}

// Equal matches rows where field equals value.
func (q Query) Equal(field string, value any) Query { return q.where(field, OpEqual, value) }

// NotEqual matches rows where field differs from value.
func (q Query) NotEqual(field string, value any) Query { return q.where(field, OpNotEqual, value) }

// In matches rows where field is one of values.
func (q Query) In(field string, values any) Query { return q.where(field, OpIn, values) }

// NotIn matches rows where field is none of values.
func (q Query) NotIn(field string, values any) Query { return q.where(field, OpNotIn, values) }

// OrderAsc sorts by field ascending after any earlier terms.
func (q Query) OrderAsc(field string) Query { return q.order(field, SortAsc) }

// OrderDesc sorts by field descending after any earlier terms.
func (q Query) OrderDesc(field string) Query { return q.order(field, SortDesc) }

// Filters returns a copy of the filter conditions.
func (q Query) Filters() []Filter {
	return append(make([]Filter, 0, len(q.filters)+1), q.filters...)
}

// Orders returns a copy of the ordering terms.
func (q Query) Orders() []OrderBy {
	return append(make([]OrderBy, 0, len(q.orders)+1), q.orders...)
}

// Apply adds the query's conditions and ordering to a gorm session.
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	db = q.applyFilters(db)
	for _, o := range q.orders {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: o.field}, Desc: bool(o.direction)})
	}
	return db
}

func (q Query) applyFilters(db *gorm.DB) *gorm.DB {
	if len(q.filters) == 0 {
		return db
	}
	exprs := make([]clause.Expression, len(q.filters))
	for i, f := range q.filters {
		exprs[i] = f.expression()
	}
	return db.Clauses(clause.Where{Exprs: exprs})
}
