package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Reads go through readRetry. Writes run once: a failed write is reported to
// the caller and never replayed behind its back.

// All executes the query and returns all matching records, retrying transient failures
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := readRetry.Select(ctx, func() *bun.SelectQuery {
		data = nil
		return q.buildSelect(&data)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}
	if data == nil {
		data = []T{}
	}

	return data, nil
}

// First executes the query and returns the first matching record, retrying transient failures.
// Returns nil, nil when nothing matches.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := readRetry.Select(ctx, func() *bun.SelectQuery {
		return q.buildSelect(&data).Limit(1)
	})

	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Insert inserts a new record and scans store-assigned columns back into it
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update updates records matching the query. data is either a column map or a full *T.
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	start := time.Now()

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var query *bun.UpdateQuery
	switch v := data.(type) {
	case map[string]any:
		if len(v) == 0 {
			return 0, fmt.Errorf("empty update patch")
		}
		var model T
		query = q.db.NewUpdate().Model(&model)
		for key, value := range v {
			query = query.Set("? = ?", bun.Ident(key), value)
		}
	case *T:
		query = q.db.NewUpdate().Model(v)
	default:
		return 0, fmt.Errorf("unsupported data type for update: %T", data)
	}

	for _, where := range q.wheres {
		sql, args := where.sql()
		query = query.Where(sql, args...)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}
	rowsAffected, _ := res.RowsAffected()

	return int(rowsAffected), nil
}

// Delete deletes records matching the query
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if len(q.wheres) == 0 {
		return 0, fmt.Errorf("refusing to delete without a condition")
	}

	var model T
	query := q.db.NewDelete().Model(&model)
	for _, where := range q.wheres {
		sql, args := where.sql()
		query = query.Where(sql, args...)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}
	rowsAffected, _ := res.RowsAffected()

	return int(rowsAffected), nil
}
