package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/event"
	"github.com/tuanvumaihuynh/product-service/internal/model"
	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/pkg/validator"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "name"
	DefaultSortDir  = "asc"
)

// ProductInput is the client-supplied part of a product.
type ProductInput struct {
	Name        string           `json:"name" validate:"required,notblank"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,nonnegative"`
	Quantity    *int             `json:"quantity" validate:"required,gte=0"`
}

// ListProductsParams selects one page of products.
type ListProductsParams struct {
	Page     int              `json:"page" validate:"gte=0"`
	Size     int              `json:"size" validate:"gte=1,lte=100"`
	Search   *string          `json:"search"`
	MinPrice *decimal.Decimal `json:"minPrice" validate:"omitempty,nonnegative"`
	MaxPrice *decimal.Decimal `json:"maxPrice" validate:"omitempty,nonnegative"`
	SortBy   string           `json:"sortBy"`
	SortDir  string           `json:"sortDir"`
}

// DefaultListProductsParams returns the first page of ten, sorted by name ascending.
func DefaultListProductsParams() ListProductsParams {
	return ListProductsParams{
		Page:    0,
		Size:    DefaultPageSize,
		SortBy:  DefaultSortBy,
		SortDir: DefaultSortDir,
	}
}

type ProductService interface {
	CreateProduct(ctx context.Context, ownerID string, input ProductInput) (model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	ListProductsPaged(ctx context.Context, params ListProductsParams) (model.Page[model.Product], error)
	UpdateProduct(ctx context.Context, id, callerID string, input ProductInput) (model.Product, error)
	DeleteProduct(ctx context.Context, id, callerID string) error
	ListOwnerProducts(ctx context.Context, ownerID string) ([]model.Product, error)
	ListOwnerProductsPaged(ctx context.Context, ownerID string, params ListProductsParams) (model.Page[model.Product], error)
}

type productService struct {
	logger      *slog.Logger
	validator   validator.Validator
	productRepo repository.ProductRepository
	publisher   event.Publisher
}

func NewProductService(
	logger *slog.Logger,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	publisher event.Publisher,
) ProductService {
	return &productService{
		logger:      logger.With(slog.String("service", "product")),
		validator:   validator,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

func (s *productService) CreateProduct(ctx context.Context, ownerID string, input ProductInput) (model.Product, error) {
	if err := s.validator.Validate(input); err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.CreateProduct(ctx, model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Quantity:    *input.Quantity,
		OwnerID:     ownerID,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("owner_id", ownerID),
	)

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, mapRepoErr(err, "product repository get product")
	}

	return product, nil
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) ListProductsPaged(ctx context.Context, params ListProductsParams) (model.Page[model.Product], error) {
	return s.findPage(ctx, nil, params)
}

func (s *productService) UpdateProduct(ctx context.Context, id, callerID string, input ProductInput) (model.Product, error) {
	if err := s.validator.Validate(input); err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, mapRepoErr(err, "product repository get product")
	}

	if !product.IsOwnedBy(callerID) {
		return model.Product{}, apperr.ProductUpdateForbiddenErr
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = *input.Price
	product.Quantity = *input.Quantity

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return model.Product{}, mapRepoErr(err, "product repository update product")
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id, callerID string) error {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return mapRepoErr(err, "product repository get product")
	}

	if !product.IsOwnedBy(callerID) {
		return apperr.ProductDeleteForbiddenErr
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return mapRepoErr(err, "product repository delete product")
	}

	// The deletion stands even when the notification cannot be handed off.
	ev := event.ProductDeletedEvent{ProductID: id, OwnerID: callerID}
	if err := s.publisher.PublishProductDeleted(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "error publishing product deleted event",
			slog.String("product_id", id),
			slog.Any("error", err),
		)
	}

	return nil
}

func (s *productService) ListOwnerProducts(ctx context.Context, ownerID string) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, repository.ProductFilter{OwnerID: &ownerID})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) ListOwnerProductsPaged(ctx context.Context, ownerID string, params ListProductsParams) (model.Page[model.Product], error) {
	return s.findPage(ctx, &ownerID, params)
}

func (s *productService) findPage(ctx context.Context, ownerID *string, params ListProductsParams) (model.Page[model.Product], error) {
	query, err := s.buildQuery(ownerID, params)
	if err != nil {
		return model.Page[model.Product]{}, err
	}

	res, err := s.productRepo.FindProducts(ctx, query)
	if err != nil {
		return model.Page[model.Product]{}, fmt.Errorf("product repository find products: %w", err)
	}

	return model.NewPage(res.Products, query.Page, query.Size, res.Total), nil
}

func (s *productService) buildQuery(ownerID *string, params ListProductsParams) (repository.ProductQuery, error) {
	if err := s.validator.Validate(params); err != nil {
		return repository.ProductQuery{}, err
	}

	sortBy := strings.TrimSpace(params.SortBy)
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	field, ok := repository.ParseSortField(sortBy)
	if !ok {
		return repository.ProductQuery{}, apperr.ValidationErr.WithMsg("Unsupported sort field: " + sortBy)
	}

	filter := repository.ProductFilter{
		OwnerID:  ownerID,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
	}
	if params.Search != nil {
		if search := strings.TrimSpace(*params.Search); search != "" {
			filter.Search = &search
		}
	}

	return repository.ProductQuery{
		Filter: filter,
		Sort: repository.ProductSort{
			Field:     field,
			Direction: repository.ParseSortDirection(params.SortDir),
		},
		Page: params.Page,
		Size: params.Size,
	}, nil
}

func mapRepoErr(err error, op string) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperr.ProductNotFoundErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
