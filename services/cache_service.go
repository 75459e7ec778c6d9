package services

import (
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const productListGenerationKey = "products:generation"

// ErrCacheDisabled is returned by operations that need redis when CACHE_ENABLED is false
var ErrCacheDisabled = errors.New("cache disabled")

// ProductCache is what the product service needs from the cache. A nil
// product or list with a nil error is a miss.
//
// Lists are written against the generation read before the fetch. Every
// invalidation bumps the generation, so a list fetched before a write can
// never be stored after it.
type ProductCache interface {
	GetProductList(ctx context.Context, filterKey string) ([]tables.Product, error)
	ProductListGeneration(ctx context.Context) (int64, error)
	SetProductList(ctx context.Context, filterKey string, generation int64, products []tables.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error)
	SetProductByID(ctx context.Context, product *tables.Product) error
	InvalidateProductCaches(ctx context.Context, productID uuid.UUID) error
}

// CacheService provides Redis caching with connection pooling and retry logic.
// With caching disabled every read misses and every write is a no-op.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	cs := &CacheService{
		logger: logger,
		config: cfg,
	}
	if cfg.Cache.Enabled {
		cs.client = newRedisClient(cfg.Cache)
	}
	return cs
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

func (cs *CacheService) Enabled() bool {
	return cs != nil && cs.client != nil
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if cs.Enabled() {
		return cs.client.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableCacheError(err) {
			return err
		}

		backoff := min(100*(1<<attempt), 2000) // ms

		// add jitter, result lands in [backoff/2, backoff]
		var jitterBytes [4]byte
		if _, err := rand.Read(jitterBytes[:]); err == nil {
			jitter := int(binary.BigEndian.Uint32(jitterBytes[:]) % uint32(backoff/2+1))
			backoff = backoff/2 + jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(backoff) * time.Millisecond):
		}
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableCacheError determines if an error is worth retrying
func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key. A missing key yields "" and no error.
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	if !cs.Enabled() {
		return "", nil
	}

	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil // Don't retry on key not found
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	if err != nil {
		return "", err
	}
	return result, nil
}

// Delete removes a key with automatic retry logic
func (cs *CacheService) Delete(ctx context.Context, key string) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, key).Err()
	}, 3)
}

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, subject, scope string, ttl time.Duration) (int, error) {
	if !cs.Enabled() {
		return 0, ErrCacheDisabled
	}
	key := fmt.Sprintf("ratelimit:%s:%s", scope, subject)

	var result int64
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(ctx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	if !cs.Enabled() {
		return ErrCacheDisabled
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	}, 1)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	if !cs.Enabled() {
		return map[string]any{"enabled": false}
	}
	stats := cs.client.PoolStats()

	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ============================================================================
// Product Caching Methods
// ============================================================================

func (cs *CacheService) GetProductList(ctx context.Context, filterKey string) ([]tables.Product, error) {
	key := "products:list:" + filterKey

	products, err := getJSON[[]tables.Product](ctx, cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get product list from cache", gecho.Field("error", err), gecho.Field("key", key))
		return nil, err
	}
	if products == nil {
		return nil, nil
	}
	return *products, nil
}

// ProductListGeneration returns the invalidation counter; a missing key is generation 0
func (cs *CacheService) ProductListGeneration(ctx context.Context) (int64, error) {
	if !cs.Enabled() {
		return 0, nil
	}

	var generation int64
	err := cs.withRetry(ctx, func() error {
		n, err := cs.client.Get(ctx, productListGenerationKey).Int64()
		if errors.Is(err, redis.Nil) {
			generation = 0
			return nil
		}
		generation = n
		return err
	}, 3)
	return generation, err
}

// SetProductList stores the list only while generation is still current. The
// check and the write run in one WATCH/MULTI transaction; a list that lost the
// race is dropped without error.
func (cs *CacheService) SetProductList(ctx context.Context, filterKey string, generation int64, products []tables.Product) error {
	if !cs.Enabled() {
		return nil
	}

	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	key := "products:list:" + filterKey

	err = cs.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, productListGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			cs.logger.Debug("Product list outdated before caching, skipped",
				gecho.Field("read_generation", generation),
				gecho.Field("current_generation", current),
			)
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, cs.getProductListTTL())
			return nil
		})
		return err
	}, productListGenerationKey)

	if errors.Is(err, redis.TxFailedErr) {
		cs.logger.Debug("Product list invalidated while caching, skipped", gecho.Field("key", key))
		return nil
	}
	return err
}

// bumpProductListGeneration outdates every list fetch already in flight
func (cs *CacheService) bumpProductListGeneration(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Incr(ctx, productListGenerationKey).Err()
	}, 3)
}

func (cs *CacheService) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	key := "product:id:" + id.String()

	product, err := getJSON[tables.Product](ctx, cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	return product, nil
}

func (cs *CacheService) SetProductByID(ctx context.Context, product *tables.Product) error {
	return setJSON(ctx, cs, "product:id:"+product.ID.String(), product, cs.getProductListTTL())
}

// ============================================================================
// Cache Invalidation Methods
// ============================================================================

// InvalidateProductCaches removes the product's own entry and every cached list.
// Called synchronously on every product write so the next read never serves a stale row.
func (cs *CacheService) InvalidateProductCaches(ctx context.Context, productID uuid.UUID) error {
	if !cs.Enabled() {
		return nil
	}

	if err := cs.bumpProductListGeneration(ctx); err != nil {
		cs.logger.Warn("Failed to bump product list generation", gecho.Field("error", err))
		return err
	}

	if err := cs.Delete(ctx, "product:id:"+productID.String()); err != nil {
		cs.logger.Warn("Failed to delete product ID cache", gecho.Field("product_id", productID), gecho.Field("error", err))
		return err
	}

	if err := cs.DeletePattern(ctx, "products:list:*"); err != nil {
		cs.logger.Warn("Failed to delete product list caches", gecho.Field("error", err))
		return err
	}

	cs.logger.Debug("Product caches invalidated", gecho.Field("product_id", productID))
	return nil
}

// ClearAll drops every cached product entry and list. Rate limit counters are kept.
func (cs *CacheService) ClearAll(ctx context.Context) error {
	if !cs.Enabled() {
		return nil
	}
	if err := cs.bumpProductListGeneration(ctx); err != nil {
		return err
	}
	for _, pattern := range []string{"product:id:*", "products:list:*"} {
		if err := cs.DeletePattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		var cursor uint64

		for {
			keys, nextCursor, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}

		return nil
	}, 3)
}

// ============================================================================
// Helper Methods
// ============================================================================

// getProductListTTL returns the TTL for product lists from config
func (cs *CacheService) getProductListTTL() time.Duration {
	if cs.config.Cache.ProductListTTL > 0 {
		return cs.config.Cache.ProductListTTL
	}
	return 5 * time.Minute // fallback default
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
