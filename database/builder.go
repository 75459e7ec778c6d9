package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

func Asc(column string) OrderClause {
	return OrderClause{Column: column, Direction: ASC}
}

func Desc(column string) OrderClause {
	return OrderClause{Column: column, Direction: DESC}
}

// WhereClause represents a WHERE condition. Columns are qualified with the
// model's table alias so joined relations never make them ambiguous.
type WhereClause struct {
	Column   string
	Operator string
	Value    any
}

func (w *WhereClause) sql() (string, []any) {
	switch w.Operator {
	case "IS NULL", "IS NOT NULL":
		return "?TableAlias.? " + w.Operator, []any{bun.Ident(w.Column)}
	case "IN":
		return "?TableAlias.? IN (?)", []any{bun.Ident(w.Column), bun.In(w.Value)}
	}
	return "?TableAlias.? " + w.Operator + " ?", []any{bun.Ident(w.Column), w.Value}
}

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db bun.IDB

	wheres    []*WhereClause
	orders    []OrderClause
	relations []string
	limitVal  *int

	timeout time.Duration
}

// Query creates a new QueryBuilder instance. Accepts the global DB or any bun.IDB.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// Order adds prebuilt ORDER BY clauses in the given order
func (q *QueryBuilder[T]) Order(orders ...OrderClause) *QueryBuilder[T] {
	q.orders = append(q.orders, orders...)
	return q
}

// Relation preloads a bun relation declared on T
func (q *QueryBuilder[T]) Relation(names ...string) *QueryBuilder[T] {
	q.relations = append(q.relations, names...)
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)
	for _, rel := range q.relations {
		query = query.Relation(rel)
	}
	for _, where := range q.wheres {
		sql, args := where.sql()
		query = query.Where(sql, args...)
	}
	for _, order := range q.orders {
		query = query.OrderExpr("?TableAlias.? "+string(order.Direction), bun.Ident(order.Column))
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	return query
}
