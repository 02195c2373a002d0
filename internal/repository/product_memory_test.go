package repository_test

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-service/internal/model"
	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/pkg/ptr"
)

func seed(t *testing.T, repo repository.ProductRepository, products ...model.Product) []model.Product {
	t.Helper()

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		created, err := repo.CreateProduct(context.Background(), p)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func product(name, price, owner string, quantity int) model.Product {
	return model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		OwnerID:  owner,
	}
}

func TestMemoryProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Should assign ids and round trip", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		created := seed(t, repo, product("Lamp", "9.99", "s1", 1))[0]

		assert.NotEmpty(t, created.ID)

		got, err := repo.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("Should not overwrite owner on update", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		created := seed(t, repo, product("Lamp", "9.99", "s1", 1))[0]

		created.Name = "Desk Lamp"
		created.OwnerID = "intruder"
		require.NoError(t, repo.UpdateProduct(ctx, created))

		got, err := repo.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", got.Name)
		assert.Equal(t, "s1", got.OwnerID)
	})

	t.Run("Should report missing products", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()

		_, err := repo.GetProduct(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		assert.ErrorIs(t, repo.UpdateProduct(ctx, model.Product{ID: "nope"}), repository.ErrProductNotFound)
		assert.ErrorIs(t, repo.DeleteProduct(ctx, "nope"), repository.ErrProductNotFound)
	})

	t.Run("Should list in creation order", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		created := seed(t, repo,
			product("C", "1", "s1", 1),
			product("A", "2", "s2", 1),
			product("B", "3", "s1", 1),
		)

		all, err := repo.ListProducts(ctx, repository.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, created, all)

		mine, err := repo.ListProducts(ctx, repository.ProductFilter{OwnerID: ptr.New("s1")})
		require.NoError(t, err)
		assert.Equal(t, []model.Product{created[0], created[2]}, mine)
	})

	t.Run("Should filter sort and page", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		seed(t, repo,
			product("Red Shirt", "10", "s1", 5),
			product("Blue Hat", "20", "s1", 2),
			product("Green Shirt", "30", "s2", 7),
			product("Yellow Scarf", "15", "s1", 1),
		)

		res, err := repo.FindProducts(ctx, repository.ProductQuery{
			Filter: repository.ProductFilter{Search: ptr.New("shirt")},
			Sort:   repository.ProductSort{Field: repository.SortFieldPrice, Direction: repository.SortDesc},
			Page:   0,
			Size:   10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		require.Len(t, res.Products, 2)
		assert.Equal(t, "Green Shirt", res.Products[0].Name)
		assert.Equal(t, "Red Shirt", res.Products[1].Name)

		res, err = repo.FindProducts(ctx, repository.ProductQuery{
			Filter: repository.ProductFilter{OwnerID: ptr.New("s1"), MaxPrice: ptr.New(decimal.NewFromInt(15))},
			Sort:   repository.ProductSort{Field: repository.SortFieldQuantity},
			Page:   0,
			Size:   10,
		})
		require.NoError(t, err)
		require.Len(t, res.Products, 2)
		assert.Equal(t, "Yellow Scarf", res.Products[0].Name)
		assert.Equal(t, "Red Shirt", res.Products[1].Name)

		res, err = repo.FindProducts(ctx, repository.ProductQuery{
			Sort: repository.ProductSort{Field: repository.SortFieldName},
			Page: 1,
			Size: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.Total)
		require.Len(t, res.Products, 1)
		assert.Equal(t, "Yellow Scarf", res.Products[0].Name)

		res, err = repo.FindProducts(ctx, repository.ProductQuery{
			Sort: repository.ProductSort{Field: repository.SortFieldName},
			Page: 5,
			Size: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.Total)
		assert.Empty(t, res.Products)
	})
}

func TestParseSort(t *testing.T) {
	f, ok := repository.ParseSortField("ownerId")
	assert.True(t, ok)
	assert.Equal(t, repository.SortFieldOwnerID, f)

	_, ok = repository.ParseSortField("owner_id")
	assert.False(t, ok)

	assert.Equal(t, repository.SortDesc, repository.ParseSortDirection("DeSc"))
	assert.Equal(t, repository.SortAsc, repository.ParseSortDirection("descending"))
	assert.Equal(t, repository.SortAsc, repository.ParseSortDirection(""))
}

func TestProductFilterMatch(t *testing.T) {
	p := product("Red Shirt", "10", "s1", 1)

	tests := []struct {
		name   string
		filter repository.ProductFilter
		want   bool
	}{
		{name: "empty filter", filter: repository.ProductFilter{}, want: true},
		{name: "case-insensitive search", filter: repository.ProductFilter{Search: ptr.New("RED")}, want: true},
		{name: "search miss", filter: repository.ProductFilter{Search: ptr.New("hat")}, want: false},
		{name: "inclusive lower bound", filter: repository.ProductFilter{MinPrice: ptr.New(decimal.NewFromInt(10))}, want: true},
		{name: "inclusive upper bound", filter: repository.ProductFilter{MaxPrice: ptr.New(decimal.RequireFromString("10.00"))}, want: true},
		{name: "below range", filter: repository.ProductFilter{MinPrice: ptr.New(decimal.NewFromInt(11))}, want: false},
		{name: "other owner", filter: repository.ProductFilter{OwnerID: ptr.New("s2")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(p))
		})
	}
}

func TestProductQueryOffset(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       int64
	}{
		{name: "first page", page: 0, size: 10, want: 0},
		{name: "third page", page: 2, size: 25, want: 50},
		{name: "saturates on overflow", page: 922337203685477581, size: 10, want: math.MaxInt64},
		{name: "saturates at max page", page: math.MaxInt, size: 100, want: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := repository.ProductQuery{Page: tt.page, Size: tt.size}
			assert.Equal(t, tt.want, q.Offset())
		})
	}
}

func TestMemoryFindProductsFarPage(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	seed(t, repo, product("Lamp", "10", "s1", 1), product("Desk", "90", "s1", 1))

	res, err := repo.FindProducts(context.Background(), repository.ProductQuery{
		Sort: repository.ProductSort{Field: repository.SortFieldName},
		Page: math.MaxInt,
		Size: 10,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Products)
	assert.Equal(t, int64(2), res.Total)
}
