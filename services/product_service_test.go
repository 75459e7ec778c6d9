package services

import (
	"catalogo_server/lib"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestDeleteProductNeedsConfirmation(t *testing.T) {
	p := tables.Product{ID: uuid.New(), Name: "Funcho"}
	store := newProductStore(p)
	cache := &memCache{}
	ps := NewProductService(testLogger(), store, cache)

	if err := ps.DeleteProduct(context.Background(), p.ID, false); !errors.Is(err, lib.ErrConfirmationRequired) {
		t.Fatalf("got %v, want ErrConfirmationRequired", err)
	}
	if store.deletes != 0 {
		t.Error("unconfirmed delete must not write")
	}

	if err := ps.DeleteProduct(context.Background(), p.ID, true); err != nil {
		t.Fatal(err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != p.ID {
		t.Errorf("invalidated = %v", cache.invalidated)
	}

	list, err := ps.ListProducts(context.Background(), ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("list after delete = %v", list)
	}
}

func TestDeleteProductFailureKeepsCache(t *testing.T) {
	p := tables.Product{ID: uuid.New()}
	store := newProductStore(p)
	store.failDelete = errStoreDown
	cache := &memCache{}
	ps := NewProductService(testLogger(), store, cache)

	err := ps.DeleteProduct(context.Background(), p.ID, true)
	var pe *lib.PersistenceError
	if !errors.As(err, &pe) || pe.Op != "delete" {
		t.Fatalf("got %v, want delete PersistenceError", err)
	}
	if len(cache.invalidated) != 0 {
		t.Error("failed delete must not invalidate")
	}
}

func TestListProductsUsesCache(t *testing.T) {
	store := newProductStore(tables.Product{ID: uuid.New(), Name: "Cidreira"})
	cache := &memCache{}
	ps := NewProductService(testLogger(), store, cache)

	if _, err := ps.ListProducts(context.Background(), ProductFilter{}); err != nil {
		t.Fatal(err)
	}
	store.failFetch = errStoreDown

	list, err := ps.ListProducts(context.Background(), ProductFilter{})
	if err != nil {
		t.Fatalf("cached read hit the store: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestListRacingDeleteDoesNotCacheDeletedRow(t *testing.T) {
	p := tables.Product{ID: uuid.New(), Name: "Losna"}
	store := newProductStore(p)
	cache := &memCache{}
	ps := NewProductService(testLogger(), store, cache)
	ctx := context.Background()

	fetched := make(chan struct{})
	release := make(chan struct{})
	var hold sync.Once
	store.onFetchAll = func() {
		hold.Do(func() {
			close(fetched)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		_, err := ps.ListProducts(ctx, ProductFilter{})
		done <- err
	}()

	// The list has read its rows; the delete lands before it caches them
	<-fetched
	if err := ps.DeleteProduct(ctx, p.ID, true); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	list, err := ps.ListProducts(ctx, ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("after delete, list = %d rows, want 0", len(list))
	}
}

func TestSalesScope(t *testing.T) {
	retailHidden := tables.Product{Name: "retail", ProductType: structs.ProductTypeRetail}
	untypedVisible := tables.Product{Name: "untyped", IsVisible: true}
	untypedHidden := tables.Product{Name: "hidden"}
	bulk := tables.Product{Name: "bulk", ProductType: structs.ProductTypeBulk, IsVisible: true}

	got := FilterProducts(
		[]tables.Product{retailHidden, untypedVisible, untypedHidden, bulk},
		ProductFilter{Scope: SalesScope},
	)
	if len(got) != 2 || got[0].Name != "retail" || got[1].Name != "untyped" {
		t.Errorf("sales scope = %v", got)
	}
}

func TestProductFilterMatches(t *testing.T) {
	visible := true
	untyped := structs.ProductType("")
	p := &tables.Product{Name: "Oleo de Alecrim", Classification: "oil", IsVisible: true}

	tests := []struct {
		name   string
		filter ProductFilter
		want   bool
	}{
		{"zero filter", ProductFilter{}, true},
		{"visible", ProductFilter{Visible: &visible}, true},
		{"untyped", ProductFilter{ProductType: &untyped}, true},
		{"search is case insensitive", ProductFilter{Search: "ALECRIM"}, true},
		{"search misses", ProductFilter{Search: "lavanda"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(p); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}
