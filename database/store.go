package database

import (
	"catalogo_server/lib"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store is the persistence boundary over one named collection. Every error it
// returns is a *lib.PersistenceError; a missing row unwraps to lib.ErrNotFound.
type Store[T any] interface {
	FetchAll(ctx context.Context, orders ...OrderClause) ([]T, error)
	FetchJoined(ctx context.Context, relations []string, orders ...OrderClause) ([]T, error)
	// FetchJoinedWhere is FetchJoined narrowed to rows whose column equals value
	FetchJoinedWhere(ctx context.Context, column string, value any, relations []string, orders ...OrderClause) ([]T, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*T, error)
	Insert(ctx context.Context, record *T) (*T, error)
	// Update applies patch (a column map or a full *T) to the record with id
	Update(ctx context.Context, id uuid.UUID, patch any) error
	// UpdateWhere applies patch only while column still holds expected. When no
	// row matches, the error unwraps to lib.ErrStale.
	UpdateWhere(ctx context.Context, id uuid.UUID, column string, expected any, patch any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Collection implements Store on bun
type Collection[T any] struct {
	db       bun.IDB
	name     string
	timeouts QueryTimeouts
}

// QueryTimeouts bounds reads and writes separately
type QueryTimeouts struct {
	Read  time.Duration
	Write time.Duration
}

func NewCollection[T any](db bun.IDB, name string, timeouts QueryTimeouts) *Collection[T] {
	return &Collection[T]{db: db, name: name, timeouts: timeouts}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) FetchAll(ctx context.Context, orders ...OrderClause) ([]T, error) {
	rows, err := Query[T](c.db).Order(orders...).Timeout(c.timeouts.Read).All(ctx)
	if err != nil {
		return nil, lib.NewPersistenceError("fetch", c.name, err)
	}
	return rows, nil
}

func (c *Collection[T]) FetchJoined(ctx context.Context, relations []string, orders ...OrderClause) ([]T, error) {
	rows, err := Query[T](c.db).Relation(relations...).Order(orders...).Timeout(c.timeouts.Read).All(ctx)
	if err != nil {
		return nil, lib.NewPersistenceError("fetch", c.name, err)
	}
	return rows, nil
}

func (c *Collection[T]) FetchJoinedWhere(ctx context.Context, column string, value any, relations []string, orders ...OrderClause) ([]T, error) {
	rows, err := Query[T](c.db).Relation(relations...).Where(column, value).Order(orders...).Timeout(c.timeouts.Read).All(ctx)
	if err != nil {
		return nil, lib.NewPersistenceError("fetch", c.name, err)
	}
	return rows, nil
}

func (c *Collection[T]) FetchByID(ctx context.Context, id uuid.UUID) (*T, error) {
	row, err := Query[T](c.db).Where("id", id).Timeout(c.timeouts.Read).First(ctx)
	if err != nil {
		return nil, lib.NewPersistenceError("fetch", c.name, err)
	}
	if row == nil {
		return nil, lib.NewPersistenceError("fetch", c.name, lib.ErrNotFound)
	}
	return row, nil
}

func (c *Collection[T]) Insert(ctx context.Context, record *T) (*T, error) {
	out, err := Query[T](c.db).Timeout(c.timeouts.Write).Insert(ctx, record)
	if err != nil {
		return nil, lib.NewPersistenceError("insert", c.name, err)
	}
	return out, nil
}

func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, patch any) error {
	n, err := Query[T](c.db).Where("id", id).Timeout(c.timeouts.Write).Update(ctx, patch)
	if err != nil {
		return lib.NewPersistenceError("update", c.name, err)
	}
	if n == 0 {
		return lib.NewPersistenceError("update", c.name, lib.ErrNotFound)
	}
	return nil
}

// UpdateWhere is a compare-and-set on one column. The condition and the write
// are a single statement, so two callers racing on the same expected value
// cannot both succeed.
func (c *Collection[T]) UpdateWhere(ctx context.Context, id uuid.UUID, column string, expected any, patch any) error {
	n, err := Query[T](c.db).Where("id", id).Where(column, expected).Timeout(c.timeouts.Write).Update(ctx, patch)
	if err != nil {
		return lib.NewPersistenceError("update", c.name, err)
	}
	if n == 0 {
		return lib.NewPersistenceError("update", c.name, lib.ErrStale)
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := Query[T](c.db).Where("id", id).Timeout(c.timeouts.Write).Delete(ctx)
	if err != nil {
		return lib.NewPersistenceError("delete", c.name, err)
	}
	if n == 0 {
		return lib.NewPersistenceError("delete", c.name, lib.ErrNotFound)
	}
	return nil
}
