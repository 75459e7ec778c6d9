package services

import (
	"catalogo_server/database"
	"catalogo_server/lib"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"errors"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store down")

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}

// memStore is an in-memory Store keeping insertion order. Errors can be
// injected per operation.
type memStore[T any] struct {
	mu    sync.Mutex
	name  string
	rows  []T
	idOf  func(*T) uuid.UUID
	setID func(*T)
	patch func(*T, map[string]any)
	join  func([]T) []T
	field func(*T, string) any

	// called outside the lock once a read has its rows
	onFetchAll  func()
	onFetchByID func()

	failFetch  error
	failInsert error
	failUpdate error
	failDelete error

	// fail inserts once this many have succeeded; 0 disables
	insertFailAfter int

	inserts, updates, deletes int
	filteredBy                []any
}

func (s *memStore[T]) find(id uuid.UUID) int {
	for i := range s.rows {
		if s.idOf(&s.rows[i]) == id {
			return i
		}
	}
	return -1
}

func (s *memStore[T]) snapshot() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFetch != nil {
		return nil, lib.NewPersistenceError("fetch", s.name, s.failFetch)
	}
	out := make([]T, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *memStore[T]) FetchAll(ctx context.Context, orders ...database.OrderClause) ([]T, error) {
	rows, err := s.snapshot()
	if err == nil && s.onFetchAll != nil {
		s.onFetchAll()
	}
	return rows, err
}

func (s *memStore[T]) FetchJoined(ctx context.Context, relations []string, orders ...database.OrderClause) ([]T, error) {
	rows, err := s.snapshot()
	if err != nil || s.join == nil {
		return rows, err
	}
	return s.join(rows), nil
}

func (s *memStore[T]) FetchJoinedWhere(ctx context.Context, column string, value any, relations []string, orders ...database.OrderClause) ([]T, error) {
	s.mu.Lock()
	s.filteredBy = append(s.filteredBy, value)
	s.mu.Unlock()

	rows, err := s.FetchJoined(ctx, relations, orders...)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for i := range rows {
		if s.field(&rows[i], column) == value {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (s *memStore[T]) FetchByID(ctx context.Context, id uuid.UUID) (*T, error) {
	s.mu.Lock()
	if s.failFetch != nil {
		s.mu.Unlock()
		return nil, lib.NewPersistenceError("fetch", s.name, s.failFetch)
	}
	i := s.find(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, lib.NewPersistenceError("fetch", s.name, lib.ErrNotFound)
	}
	row := s.rows[i]
	s.mu.Unlock()

	if s.onFetchByID != nil {
		s.onFetchByID()
	}
	return &row, nil
}

func (s *memStore[T]) Insert(ctx context.Context, record *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil || (s.insertFailAfter > 0 && s.inserts >= s.insertFailAfter) {
		return nil, lib.NewPersistenceError("insert", s.name, errStoreDown)
	}
	if s.setID != nil && s.idOf(record) == uuid.Nil {
		s.setID(record)
	}
	s.inserts++
	s.rows = append(s.rows, *record)
	return record, nil
}

func (s *memStore[T]) Update(ctx context.Context, id uuid.UUID, patch any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return lib.NewPersistenceError("update", s.name, s.failUpdate)
	}
	i := s.find(id)
	if i < 0 {
		return lib.NewPersistenceError("update", s.name, lib.ErrNotFound)
	}
	switch v := patch.(type) {
	case *T:
		s.rows[i] = *v
	case map[string]any:
		s.patch(&s.rows[i], v)
	}
	s.updates++
	return nil
}

// UpdateWhere checks and writes under one lock, like the single UPDATE ... WHERE
func (s *memStore[T]) UpdateWhere(ctx context.Context, id uuid.UUID, column string, expected any, patch any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return lib.NewPersistenceError("update", s.name, s.failUpdate)
	}
	i := s.find(id)
	if i < 0 || s.field(&s.rows[i], column) != expected {
		return lib.NewPersistenceError("update", s.name, lib.ErrStale)
	}
	if m, ok := patch.(map[string]any); ok {
		s.patch(&s.rows[i], m)
	}
	s.updates++
	return nil
}

func (s *memStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete != nil {
		return lib.NewPersistenceError("delete", s.name, s.failDelete)
	}
	i := s.find(id)
	if i < 0 {
		return lib.NewPersistenceError("delete", s.name, lib.ErrNotFound)
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	s.deletes++
	return nil
}

func newProductStore(products ...tables.Product) *memStore[tables.Product] {
	return &memStore[tables.Product]{
		name: "products",
		rows: products,
		idOf: func(p *tables.Product) uuid.UUID { return p.ID },
	}
}

func newShipmentStore(shipments ...tables.Shipment) *memStore[tables.Shipment] {
	return &memStore[tables.Shipment]{
		name:  "shipments",
		rows:  shipments,
		idOf:  func(s *tables.Shipment) uuid.UUID { return s.ID },
		setID: func(s *tables.Shipment) { s.ID = uuid.New() },
		patch: func(s *tables.Shipment, m map[string]any) {
			if status, ok := m["status"].(structs.ShipmentStatus); ok {
				s.Status = status
			}
		},
		field: func(s *tables.Shipment, column string) any {
			if column == "status" {
				return s.Status
			}
			return nil
		},
	}
}

// newItemStore joins items against the live product store, the way the
// belongs-to relation does: a missing product leaves Product nil
func newItemStore(products *memStore[tables.Product], items ...tables.ShipmentItem) *memStore[tables.ShipmentItem] {
	return &memStore[tables.ShipmentItem]{
		name:  "shipment_items",
		rows:  items,
		idOf:  func(i *tables.ShipmentItem) uuid.UUID { return i.ID },
		setID: func(i *tables.ShipmentItem) { i.ID = uuid.New() },
		field: func(i *tables.ShipmentItem, column string) any {
			if column == "shipment_id" {
				return i.ShipmentID
			}
			return nil
		},
		join: func(rows []tables.ShipmentItem) []tables.ShipmentItem {
			products.mu.Lock()
			defer products.mu.Unlock()
			for i := range rows {
				rows[i].Product = nil
				if j := products.find(rows[i].ProductID); j >= 0 {
					p := products.rows[j]
					rows[i].Product = &p
				}
			}
			return rows
		},
	}
}

// memCache is a ProductCache that records invalidations. Like redis, it
// drops a list written against an outdated generation.
type memCache struct {
	mu          sync.Mutex
	list        []tables.Product
	hasList     bool
	generation  int64
	invalidated []uuid.UUID
}

func (c *memCache) ProductListGeneration(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memCache) GetProductList(ctx context.Context, filterKey string) ([]tables.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasList {
		return nil, nil
	}
	return c.list, nil
}

func (c *memCache) SetProductList(ctx context.Context, filterKey string, generation int64, products []tables.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return nil
	}
	c.list, c.hasList = products, true
	return nil
}

func (c *memCache) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return nil, nil
}

func (c *memCache) SetProductByID(ctx context.Context, product *tables.Product) error {
	return nil
}

func (c *memCache) InvalidateProductCaches(ctx context.Context, productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.list, c.hasList = nil, false
	c.invalidated = append(c.invalidated, productID)
	return nil
}

// recordingWriter counts writes and optionally blocks until released
type recordingWriter struct {
	mu      sync.Mutex
	created []*tables.Product
	updated []*tables.Product
	started chan struct{}
	release chan struct{}
	err     error
}

func (w *recordingWriter) wait() {
	if w.started != nil {
		w.started <- struct{}{}
		<-w.release
	}
}

func (w *recordingWriter) CreateProduct(ctx context.Context, p *tables.Product) (*tables.Product, error) {
	w.wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	w.created = append(w.created, p)
	return p, nil
}

func (w *recordingWriter) UpdateProduct(ctx context.Context, p *tables.Product) (*tables.Product, error) {
	w.wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	w.updated = append(w.updated, p)
	return p, nil
}

func (w *recordingWriter) calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.created) + len(w.updated)
}

// chanNotifier reports notifications on a channel
type chanNotifier struct {
	sent chan ShipmentView
}

func (n *chanNotifier) NotifyShipmentReceived(ctx context.Context, shipment ShipmentView) error {
	n.sent <- shipment
	return nil
}
