package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/auth"
	"github.com/tuanvumaihuynh/product-service/internal/model"
	"github.com/tuanvumaihuynh/product-service/internal/service"
	"github.com/tuanvumaihuynh/product-service/pkg/ptr"
)

const maxBodyBytes = 1 << 20

type productHandler struct {
	productSvc service.ProductService
}

func newProductHandler(productSvc service.ProductService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
	}
}

// ProductResponse is the public representation of a product.
type ProductResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       DecimalNumber `json:"price"`
	Quantity    int           `json:"quantity"`
	OwnerID     string        `json:"ownerId"`
}

// DecimalNumber is a decimal written as a bare JSON number, e.g. 19.99.
type DecimalNumber decimal.Decimal

func (d DecimalNumber) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(d).String()), nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       DecimalNumber(p.Price),
		Quantity:    p.Quantity,
		OwnerID:     p.OwnerID,
	}
}

func toProductResponses(products []model.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return items
}

func (h *productHandler) CreateProduct(r *http.Request) (response, error) {
	input, err := decodeProductInput(r)
	if err != nil {
		return response{}, err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), caller(r).UserID, input)
	if err != nil {
		return response{}, fmt.Errorf("product service create product: %w", err)
	}

	return response{
		status:  http.StatusCreated,
		message: "Product created successfully",
		data:    toProductResponse(product),
	}, nil
}

func (h *productHandler) ListProducts(r *http.Request) (response, error) {
	q, err := bindListQuery(r.URL.Query())
	if err != nil {
		return response{}, err
	}

	if q.unpaged {
		products, err := h.productSvc.ListAllProducts(r.Context())
		if err != nil {
			return response{}, fmt.Errorf("product service list all products: %w", err)
		}
		return listed(toProductResponses(products)), nil
	}

	page, err := h.productSvc.ListProductsPaged(r.Context(), q.params)
	if err != nil {
		return response{}, fmt.Errorf("product service list products paged: %w", err)
	}

	return listed(model.MapPage(page, toProductResponse)), nil
}

func (h *productHandler) ListMyProducts(r *http.Request) (response, error) {
	q, err := bindListQuery(r.URL.Query())
	if err != nil {
		return response{}, err
	}

	ownerID := caller(r).UserID

	if q.unpaged {
		products, err := h.productSvc.ListOwnerProducts(r.Context(), ownerID)
		if err != nil {
			return response{}, fmt.Errorf("product service list owner products: %w", err)
		}
		return listed(toProductResponses(products)), nil
	}

	page, err := h.productSvc.ListOwnerProductsPaged(r.Context(), ownerID, q.params)
	if err != nil {
		return response{}, fmt.Errorf("product service list owner products paged: %w", err)
	}

	return listed(model.MapPage(page, toProductResponse)), nil
}

func (h *productHandler) GetProduct(r *http.Request) (response, error) {
	product, err := h.productSvc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return response{}, fmt.Errorf("product service get product: %w", err)
	}

	return response{
		status:  http.StatusOK,
		message: "Product retrieved successfully",
		data:    toProductResponse(product),
	}, nil
}

func (h *productHandler) UpdateProduct(r *http.Request) (response, error) {
	input, err := decodeProductInput(r)
	if err != nil {
		return response{}, err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), caller(r).UserID, input)
	if err != nil {
		return response{}, fmt.Errorf("product service update product: %w", err)
	}

	return response{
		status:  http.StatusOK,
		message: "Product updated successfully",
		data:    toProductResponse(product),
	}, nil
}

func (h *productHandler) DeleteProduct(r *http.Request) (response, error) {
	if err := h.productSvc.DeleteProduct(r.Context(), chi.URLParam(r, "id"), caller(r).UserID); err != nil {
		return response{}, fmt.Errorf("product service delete product: %w", err)
	}

	return response{
		status:  http.StatusOK,
		message: "Product deleted successfully",
	}, nil
}

func listed(data any) response {
	return response{
		status:  http.StatusOK,
		message: "Products retrieved successfully",
		data:    data,
	}
}

// caller returns the identity stored by the Authenticate middleware.
func caller(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func decodeProductInput(r *http.Request) (service.ProductInput, error) {
	var input service.ProductInput

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&input); err != nil {
		return service.ProductInput{}, apperr.ValidationErr.WithMsg("Invalid request body").WrapParent(err)
	}

	return input, nil
}

type listQuery struct {
	params  service.ListProductsParams
	unpaged bool
}

func bindListQuery(values url.Values) (listQuery, error) {
	var (
		page, size               *int
		search, sortBy, sortDir  *string
		minPriceRaw, maxPriceRaw *string
		unpaged                  *bool
	)

	binds := []struct {
		name string
		dest any
	}{
		{"page", &page},
		{"size", &size},
		{"search", &search},
		{"minPrice", &minPriceRaw},
		{"maxPrice", &maxPriceRaw},
		{"sortBy", &sortBy},
		{"sortDir", &sortDir},
		{"unpaged", &unpaged},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			return listQuery{}, invalidParam(b.name, err)
		}
	}

	params := service.DefaultListProductsParams()
	if page != nil {
		params.Page = *page
	}
	if size != nil {
		params.Size = *size
	}
	if sortBy != nil {
		params.SortBy = *sortBy
	}
	if sortDir != nil {
		params.SortDir = *sortDir
	}
	params.Search = search

	var err error
	if params.MinPrice, err = parseDecimal("minPrice", minPriceRaw); err != nil {
		return listQuery{}, err
	}
	if params.MaxPrice, err = parseDecimal("maxPrice", maxPriceRaw); err != nil {
		return listQuery{}, err
	}

	return listQuery{
		params:  params,
		unpaged: ptr.Deref(unpaged, false),
	}, nil
}

func parseDecimal(name string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}

	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, invalidParam(name, err)
	}

	return &d, nil
}

func invalidParam(name string, err error) error {
	return apperr.ValidationErr.WithMsg("Invalid query parameter " + name).WrapParent(err)
}
