package services

import (
	"catalogo_server/database"
	"catalogo_server/lib"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// productListCacheKey is the single cached list; filters run in memory on top of it
const productListCacheKey = "all"

// ProductFilter narrows a product list. Zero value keeps everything.
type ProductFilter struct {
	Visible     *bool
	ProductType *structs.ProductType // pointer to "" selects untyped products
	Search      string
	Scope       func(p *tables.Product) bool
}

// SalesScope is what the sales squad sees: retail products, plus untyped
// products that are visible
func SalesScope(p *tables.Product) bool {
	if p.ProductType == structs.ProductTypeRetail {
		return true
	}
	return p.ProductType == "" && p.IsVisible
}

func (f ProductFilter) Matches(p *tables.Product) bool {
	if f.Visible != nil && p.IsVisible != *f.Visible {
		return false
	}
	if f.ProductType != nil && p.ProductType != *f.ProductType {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.TechnicalName), term) &&
			!strings.Contains(strings.ToLower(p.Classification), term) {
			return false
		}
	}
	if f.Scope != nil && !f.Scope(p) {
		return false
	}
	return true
}

// FilterProducts keeps the products matching f, in input order
func FilterProducts(products []tables.Product, f ProductFilter) []tables.Product {
	out := make([]tables.Product, 0, len(products))
	for i := range products {
		if f.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

type ProductService struct {
	logger *gecho.Logger
	store  database.Store[tables.Product]
	cache  ProductCache
}

func NewProductService(logger *gecho.Logger, store database.Store[tables.Product], cache ProductCache) *ProductService {
	return &ProductService{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

// ListProducts returns the full collection, newest first, narrowed by filter
func (ps *ProductService) ListProducts(ctx context.Context, filter ProductFilter) ([]tables.Product, error) {
	startTime := time.Now()

	cached, err := ps.cache.GetProductList(ctx, productListCacheKey)
	if err != nil {
		ps.logger.Warn("Product list cache read failed", gecho.Field("error", err))
	} else if cached != nil {
		ps.logger.Debug("Product list served from cache",
			gecho.Field("count", len(cached)),
			gecho.Field("duration", time.Since(startTime)),
		)
		return FilterProducts(cached, filter), nil
	}

	return ps.RefreshProducts(ctx, filter)
}

// RefreshProducts bypasses the cache, reloads the collection and re-primes the cache
func (ps *ProductService) RefreshProducts(ctx context.Context, filter ProductFilter) ([]tables.Product, error) {
	startTime := time.Now()

	// Read before the fetch so a write landing during it outdates this list
	generation, genErr := ps.cache.ProductListGeneration(ctx)
	if genErr != nil {
		ps.logger.Warn("Failed to read product list generation, not caching", gecho.Field("error", genErr))
	}

	products, err := ps.store.FetchAll(ctx, database.Desc("created_at"))
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, err
	}

	if genErr == nil {
		if err := ps.cache.SetProductList(ctx, productListCacheKey, generation, products); err != nil {
			ps.logger.Warn("Failed to cache product list", gecho.Field("error", err))
		}
	}

	ps.logger.Debug("Products fetched",
		gecho.Field("count", len(products)),
		gecho.Field("duration", time.Since(startTime)),
	)
	return FilterProducts(products, filter), nil
}

// GetProduct retrieves a single product by ID
func (ps *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	cached, err := ps.cache.GetProductByID(ctx, id)
	if err != nil {
		ps.logger.Warn("Product cache read failed", gecho.Field("error", err), gecho.Field("id", id))
	} else if cached != nil {
		return cached, nil
	}

	product, err := ps.store.FetchByID(ctx, id)
	if err != nil {
		ps.logger.Warn("Failed to fetch product by ID", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	if err := ps.cache.SetProductByID(ctx, product); err != nil {
		ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", id))
	}
	return product, nil
}

// CreateProduct inserts a product whose id was assigned when its draft was opened
func (ps *ProductService) CreateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := ps.store.Insert(ctx, product)
	ProductWrites.WithLabelValues("create", outcome(err)).Inc()
	if err != nil {
		ps.logger.Error("Failed to create product", gecho.Field("id", product.ID), gecho.Field("error", err))
		return nil, err
	}

	ps.invalidate(ctx, created.ID)
	ps.logger.Info("Product created", gecho.Field("id", created.ID), gecho.Field("name", created.Name))
	return created, nil
}

// UpdateProduct overwrites the whole record. Last write wins.
func (ps *ProductService) UpdateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	product.UpdatedAt = time.Now()

	err := ps.store.Update(ctx, product.ID, product)
	ProductWrites.WithLabelValues("update", outcome(err)).Inc()
	if err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("id", product.ID), gecho.Field("error", err))
		return nil, err
	}

	ps.invalidate(ctx, product.ID)
	ps.logger.Info("Product updated", gecho.Field("id", product.ID))
	return product, nil
}

// DeleteProduct removes a product after explicit confirmation. Shipment lines
// pointing at it stay valid and render as a removed product.
func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return lib.ErrConfirmationRequired
	}

	err := ps.store.Delete(ctx, id)
	ProductWrites.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		ps.logger.Error("Failed to delete product", gecho.Field("id", id), gecho.Field("error", err))
		return err
	}

	ps.invalidate(ctx, id)
	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}

// invalidate runs inline so the caller's next read already misses the cache.
// A failure here cannot undo the write; RefreshProducts still serves fresh rows.
func (ps *ProductService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := ps.cache.InvalidateProductCaches(ctx, id); err != nil {
		ps.logger.Error("Failed to invalidate product caches", gecho.Field("id", id), gecho.Field("error", err))
	}
}
