package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-service/internal/model"
)

var _ ProductRepository = (*MemoryProductRepository)(nil)

// MemoryProductRepository keeps products in a map. Used for local runs and tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]model.Product),
	}
}

func (r *MemoryProductRepository) CreateProduct(_ context.Context, product model.Product) (model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}
	product.ID = id.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = product

	return product, nil
}

func (r *MemoryProductRepository) GetProduct(_ context.Context, id string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return model.Product{}, ErrProductNotFound
	}

	return product, nil
}

func (r *MemoryProductRepository) UpdateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}

	stored.Name = product.Name
	stored.Description = product.Description
	stored.Price = product.Price
	stored.Quantity = product.Quantity
	r.products[product.ID] = stored

	return nil
}

func (r *MemoryProductRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)

	return nil
}

func (r *MemoryProductRepository) ListProducts(_ context.Context, filter ProductFilter) ([]model.Product, error) {
	return r.match(filter, ProductSort{Field: SortFieldID}), nil
}

func (r *MemoryProductRepository) FindProducts(_ context.Context, query ProductQuery) (FindProductsResult, error) {
	matched := r.match(query.Filter, query.Sort)
	total := int64(len(matched))

	start := min(query.Offset(), total)
	end := start + min(int64(query.Size), total-start)

	return FindProductsResult{
		Products: matched[start:end],
		Total:    total,
	}, nil
}

func (r *MemoryProductRepository) match(filter ProductFilter, sort ProductSort) []model.Product {
	r.mu.RLock()
	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Match(p) {
			products = append(products, p)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(products, func(a, b model.Product) int {
		if sort.Field == SortFieldID {
			c := strings.Compare(a.ID, b.ID)
			if sort.Direction == SortDesc {
				return -c
			}
			return c
		}
		return compareProducts(a, b, sort)
	})

	return products
}
