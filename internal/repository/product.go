package repository

import (
	"cmp"
	"context"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-service/internal/model"
)

// ErrProductNotFound is returned when no product has the requested id.
// Malformed ids are reported the same way.
var ErrProductNotFound = errors.New("product not found")

// SortField is a product attribute listings can be ordered by.
type SortField string

const (
	SortFieldID          SortField = "id"
	SortFieldName        SortField = "name"
	SortFieldDescription SortField = "description"
	SortFieldPrice       SortField = "price"
	SortFieldQuantity    SortField = "quantity"
	SortFieldOwnerID     SortField = "ownerId"
)

// ParseSortField maps a public field name to a SortField.
func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(s); f {
	case SortFieldID, SortFieldName, SortFieldDescription, SortFieldPrice, SortFieldQuantity, SortFieldOwnerID:
		return f, true
	default:
		return "", false
	}
}

type SortDirection uint8

const (
	SortAsc SortDirection = iota
	SortDesc
)

// ParseSortDirection returns SortDesc for "desc" in any case and SortAsc otherwise.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDesc
	}
	return SortAsc
}

func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// ProductFilter is the conjunction of the optional predicates a listing
// applies. A nil field is not applied.
type ProductFilter struct {
	OwnerID *string
	// Search matches case-insensitively as a substring of the name.
	Search   *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Match evaluates the filter against a single product.
func (f ProductFilter) Match(p model.Product) bool {
	if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
		return false
	}
	if f.Search != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*f.Search)) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

type ProductSort struct {
	Field     SortField
	Direction SortDirection
}

// ProductQuery is a filtered, sorted, zero-indexed page request.
type ProductQuery struct {
	Filter ProductFilter
	Sort   ProductSort
	Page   int
	Size   int
}

// Offset returns the number of records skipped before the page. It saturates
// at math.MaxInt64 so pages far past the end stay past the end.
func (q ProductQuery) Offset() int64 {
	if q.Page <= 0 || q.Size <= 0 {
		return 0
	}
	if int64(q.Page) > math.MaxInt64/int64(q.Size) {
		return math.MaxInt64
	}
	return int64(q.Page) * int64(q.Size)
}

type FindProductsResult struct {
	Products []model.Product
	Total    int64
}

type ProductRepository interface {
	// CreateProduct stores a new product and returns it with its assigned id.
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	// UpdateProduct replaces name, description, price and quantity. OwnerID is never written.
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// ListProducts returns every matching product in creation order.
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindProducts(ctx context.Context, query ProductQuery) (FindProductsResult, error)
}

// compareProducts orders a and b by field, breaking ties by id.
func compareProducts(a, b model.Product, sort ProductSort) int {
	var c int
	switch sort.Field {
	case SortFieldName:
		c = strings.Compare(a.Name, b.Name)
	case SortFieldDescription:
		c = strings.Compare(a.Description, b.Description)
	case SortFieldPrice:
		c = a.Price.Cmp(b.Price)
	case SortFieldQuantity:
		c = cmp.Compare(a.Quantity, b.Quantity)
	case SortFieldOwnerID:
		c = strings.Compare(a.OwnerID, b.OwnerID)
	}

	if sort.Direction == SortDesc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
