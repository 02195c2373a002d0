package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/product-service/internal/model"
	"github.com/tuanvumaihuynh/product-service/internal/storage/cache"
)

const productCacheKeyPrefix = "product:"

// cachedProductRepository serves GetProduct through a read-through cache.
// Cache failures are logged and the inner repository answers instead.
type cachedProductRepository struct {
	ProductRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProductRepository(inner ProductRepository, c cache.Cache, ttl time.Duration, logger *slog.Logger) ProductRepository {
	return &cachedProductRepository{
		ProductRepository: inner,
		cache:             c,
		ttl:               ttl,
		logger:            logger.With(slog.String("component", "product_cache")),
	}
}

func (r *cachedProductRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	key := productCacheKeyPrefix + id

	b, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var product model.Product
		if err := json.Unmarshal(b, &product); err == nil {
			return product, nil
		}
		r.logger.WarnContext(ctx, "discard malformed cache entry", slog.String("key", key))
	case !errors.Is(err, cache.ErrMiss):
		r.logger.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.Any("error", err))
	}

	product, err := r.ProductRepository.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if b, err := json.Marshal(product); err == nil {
		if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
			r.logger.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	return product, nil
}

func (r *cachedProductRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	if err := r.ProductRepository.UpdateProduct(ctx, product); err != nil {
		return err
	}
	r.evict(ctx, product.ID)
	return nil
}

func (r *cachedProductRepository) DeleteProduct(ctx context.Context, id string) error {
	if err := r.ProductRepository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *cachedProductRepository) evict(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, productCacheKeyPrefix+id); err != nil {
		r.logger.WarnContext(ctx, "cache evict failed", slog.String("product_id", id), slog.Any("error", err))
	}
}
