package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/event"
	"github.com/tuanvumaihuynh/product-service/internal/log"
	"github.com/tuanvumaihuynh/product-service/internal/model"
	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/internal/service"
	"github.com/tuanvumaihuynh/product-service/pkg/ptr"
	"github.com/tuanvumaihuynh/product-service/pkg/validator"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []event.ProductDeletedEvent
	err    error
}

func (p *fakePublisher) PublishProductDeleted(_ context.Context, ev event.ProductDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func newService(t *testing.T) (service.ProductService, *fakePublisher) {
	t.Helper()

	pub := &fakePublisher{}
	svc := service.NewProductService(
		log.NewDiscardLogger(),
		validator.MustNewDefaultValidator(),
		repository.NewMemoryProductRepository(),
		pub,
	)
	return svc, pub
}

func input(name string, price string, quantity int) service.ProductInput {
	return service.ProductInput{
		Name:        name,
		Description: name + " description",
		Price:       ptr.New(decimal.RequireFromString(price)),
		Quantity:    ptr.New(quantity),
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	t.Run("Should set owner to caller", func(t *testing.T) {
		p, err := svc.CreateProduct(ctx, "seller1", input("Lamp", "19.99", 3))
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "seller1", p.OwnerID)
		assert.True(t, decimal.RequireFromString("19.99").Equal(p.Price))
		assert.Equal(t, 3, p.Quantity)
	})

	t.Run("Should reject invalid input", func(t *testing.T) {
		tests := []struct {
			name  string
			input service.ProductInput
		}{
			{name: "blank name", input: input("  ", "1", 1)},
			{name: "negative price", input: input("Lamp", "-1", 1)},
			{name: "negative price below float precision", input: input("Lamp", "-1e-400", 1)},
			{name: "negative quantity", input: input("Lamp", "1", -1)},
			{name: "missing price", input: service.ProductInput{Name: "Lamp", Quantity: ptr.New(1)}},
			{name: "missing quantity", input: service.ProductInput{Name: "Lamp", Price: ptr.New(decimal.NewFromInt(1))}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateProduct(ctx, "seller1", tt.input)
				require.Error(t, err)
				assert.True(t, validator.IsValidationError(err))
			})
		}
	})

	t.Run("Should accept zero price and quantity", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, "seller1", input("Freebie", "0", 0))
		assert.NoError(t, err)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.CreateProduct(ctx, "seller1", input("Lamp", "10", 1))
	require.NoError(t, err)

	t.Run("Should return identical values on repeated reads", func(t *testing.T) {
		first, err := svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		second, err := svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, created, first)
	})

	t.Run("Should fail with not found for unknown id", func(t *testing.T) {
		p, err := svc.GetProduct(ctx, "does-not-exist")
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
		assert.Equal(t, model.Product{}, p)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.CreateProduct(ctx, "seller1", input("Lamp", "10", 1))
	require.NoError(t, err)

	t.Run("Should forbid non-owner and leave record unchanged", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, created.ID, "seller2", input("Hacked", "1", 99))
		assert.ErrorIs(t, err, apperr.ProductUpdateForbiddenErr)

		stored, err := svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, stored)
	})

	t.Run("Should replace fields for owner and keep owner", func(t *testing.T) {
		updated, err := svc.UpdateProduct(ctx, created.ID, "seller1", input("Desk Lamp", "12.50", 4))
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Desk Lamp", updated.Name)
		assert.True(t, decimal.RequireFromString("12.5").Equal(updated.Price))
		assert.Equal(t, 4, updated.Quantity)
		assert.Equal(t, "seller1", updated.OwnerID)

		stored, err := svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Should fail with not found for unknown id", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, "missing", "seller1", input("X", "1", 1))
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	t.Run("Should validate before looking up", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, "missing", "seller1", input("", "1", 1))
		assert.True(t, validator.IsValidationError(err))
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should forbid non-owner and keep the record", func(t *testing.T) {
		svc, pub := newService(t)
		created, err := svc.CreateProduct(ctx, "seller1", input("Lamp", "10", 1))
		require.NoError(t, err)

		err = svc.DeleteProduct(ctx, created.ID, "seller2")
		assert.ErrorIs(t, err, apperr.ProductDeleteForbiddenErr)

		_, err = svc.GetProduct(ctx, created.ID)
		assert.NoError(t, err)
		assert.Empty(t, pub.events)
	})

	t.Run("Should fail with not found for unknown id", func(t *testing.T) {
		svc, pub := newService(t)

		err := svc.DeleteProduct(ctx, "missing", "seller1")
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
		assert.Empty(t, pub.events)
	})

	t.Run("Should delete even when publishing fails", func(t *testing.T) {
		svc, pub := newService(t)
		pub.err = errors.New("broker down")

		created, err := svc.CreateProduct(ctx, "seller1", input("Lamp", "10", 1))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProduct(ctx, created.ID, "seller1"))

		_, err = svc.GetProduct(ctx, created.ID)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(t)

	a, err := svc.CreateProduct(ctx, "seller1", input("Widget", "5", 2))
	require.NoError(t, err)

	got, err := svc.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "seller1", got.OwnerID)

	_, err = svc.UpdateProduct(ctx, a.ID, "seller2", input("Gadget", "6", 3))
	assert.ErrorIs(t, err, apperr.ProductUpdateForbiddenErr)

	updated, err := svc.UpdateProduct(ctx, a.ID, "seller1", input("Gadget", "6", 3))
	require.NoError(t, err)
	assert.Equal(t, "Gadget", updated.Name)

	require.NoError(t, svc.DeleteProduct(ctx, a.ID, "seller1"))
	assert.Equal(t, []event.ProductDeletedEvent{{ProductID: a.ID, OwnerID: "seller1"}}, pub.events)

	_, err = svc.GetProduct(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
}

func TestListProductsPaged(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return an empty last page on an empty store", func(t *testing.T) {
		svc, _ := newService(t)

		page, err := svc.ListProductsPaged(ctx, service.DefaultListProductsParams())
		require.NoError(t, err)

		assert.Empty(t, page.Content)
		assert.NotNil(t, page.Content)
		assert.Equal(t, int64(0), page.TotalElements)
		assert.Equal(t, 0, page.TotalPages)
		assert.True(t, page.IsLastPage)
	})

	svc, _ := newService(t)
	_, err := svc.CreateProduct(ctx, "seller1", input("Red Shirt", "10", 1))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, "seller2", input("Blue Hat", "20", 1))
	require.NoError(t, err)

	t.Run("Should return an empty page for a page number far past the end", func(t *testing.T) {
		params := service.DefaultListProductsParams()
		params.Page = 922337203685477581

		page, err := svc.ListProductsPaged(ctx, params)
		require.NoError(t, err)

		assert.Empty(t, page.Content)
		assert.NotNil(t, page.Content)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, 922337203685477581, page.PageNumber)
		assert.True(t, page.IsLastPage)
	})

	names := func(p model.Page[model.Product]) []string {
		out := make([]string, 0, len(p.Content))
		for _, item := range p.Content {
			out = append(out, item.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		params func(p *service.ListProductsParams)
		want   []string
	}{
		{
			name:   "search is case-insensitive",
			params: func(p *service.ListProductsParams) { p.Search = ptr.New("SHIRT") },
			want:   []string{"Red Shirt"},
		},
		{
			name: "price range is inclusive",
			params: func(p *service.ListProductsParams) {
				p.MinPrice = ptr.New(decimal.NewFromInt(15))
				p.MaxPrice = ptr.New(decimal.NewFromInt(25))
			},
			want: []string{"Blue Hat"},
		},
		{
			name: "search and range combine",
			params: func(p *service.ListProductsParams) {
				p.Search = ptr.New("shirt")
				p.MinPrice = ptr.New(decimal.NewFromInt(15))
				p.MaxPrice = ptr.New(decimal.NewFromInt(25))
			},
			want: []string{},
		},
		{
			name:   "one-sided lower bound",
			params: func(p *service.ListProductsParams) { p.MinPrice = ptr.New(decimal.NewFromInt(20)) },
			want:   []string{"Blue Hat"},
		},
		{
			name:   "blank search is ignored",
			params: func(p *service.ListProductsParams) { p.Search = ptr.New("   ") },
			want:   []string{"Blue Hat", "Red Shirt"},
		},
		{
			name:   "sort by price descending",
			params: func(p *service.ListProductsParams) { p.SortBy = "price"; p.SortDir = "DESC" },
			want:   []string{"Blue Hat", "Red Shirt"},
		},
		{
			name:   "unknown direction sorts ascending",
			params: func(p *service.ListProductsParams) { p.SortBy = "price"; p.SortDir = "sideways" },
			want:   []string{"Red Shirt", "Blue Hat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := service.DefaultListProductsParams()
			tt.params(&params)

			page, err := svc.ListProductsPaged(ctx, params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(page))
			assert.Equal(t, int64(len(tt.want)), page.TotalElements)
		})
	}

	t.Run("Should page through results", func(t *testing.T) {
		params := service.DefaultListProductsParams()
		params.Size = 1
		params.Page = 1

		page, err := svc.ListProductsPaged(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, []string{"Red Shirt"}, names(page))
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.IsLastPage)
	})

	t.Run("Should reject invalid paging", func(t *testing.T) {
		for _, mutate := range []func(p *service.ListProductsParams){
			func(p *service.ListProductsParams) { p.Page = -1 },
			func(p *service.ListProductsParams) { p.Size = 0 },
			func(p *service.ListProductsParams) { p.Size = 101 },
		} {
			params := service.DefaultListProductsParams()
			mutate(&params)

			_, err := svc.ListProductsPaged(ctx, params)
			assert.True(t, validator.IsValidationError(err))
		}
	})

	t.Run("Should reject unknown sort field", func(t *testing.T) {
		params := service.DefaultListProductsParams()
		params.SortBy = "password"

		_, err := svc.ListProductsPaged(ctx, params)
		assert.ErrorIs(t, err, apperr.ValidationErr)
	})
}

func TestOwnerListings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	for _, owner := range []string{"seller1", "seller2", "seller1"} {
		_, err := svc.CreateProduct(ctx, owner, input("Item of "+owner, "1", 1))
		require.NoError(t, err)
	}

	all, err := svc.ListAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.ListOwnerProducts(ctx, "seller1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, p := range mine {
		assert.Equal(t, "seller1", p.OwnerID)
	}

	page, err := svc.ListOwnerProductsPaged(ctx, "seller2", service.DefaultListProductsParams())
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "seller2", page.Content[0].OwnerID)
	assert.Equal(t, int64(1), page.TotalElements)
}
