package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-service/internal/model"
	"github.com/tuanvumaihuynh/product-service/internal/storage/db"
)

const productColumns = "id, name, description, price, quantity, owner_id"

var pgSortColumns = map[SortField]string{
	SortFieldID:          "id",
	SortFieldName:        "name",
	SortFieldDescription: "description",
	SortFieldPrice:       "price",
	SortFieldQuantity:    "quantity",
	SortFieldOwnerID:     "owner_id",
}

type PostgresProductRepository interface {
	ProductRepository
	WithDB(db db.DB) PostgresProductRepository
}

type postgresProductRepository struct {
	db db.DB
}

func NewPostgresProductRepository(db db.DB) PostgresProductRepository {
	return &postgresProductRepository{db: db}
}

func (r postgresProductRepository) WithDB(db db.DB) PostgresProductRepository {
	return &postgresProductRepository{db: db}
}

func (r postgresProductRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, quantity, owner_id)
		VALUES (@id, @name, @description, @price, @quantity, @owner_id)
	`, pgx.NamedArgs{
		"id":          id,
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"quantity":    product.Quantity,
		"owner_id":    product.OwnerID,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("product create: %w", err)
	}

	product.ID = id.String()
	return product, nil
}

func (r postgresProductRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return model.Product{}, ErrProductNotFound
	}

	rows, err := r.db.Query(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", pid)
	if err != nil {
		return model.Product{}, fmt.Errorf("product get: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("product get: %w", err)
	}

	return product, nil
}

func (r postgresProductRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	pid, err := uuid.Parse(product.ID)
	if err != nil {
		return ErrProductNotFound
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			name        = @name,
			description = @description,
			price       = @price,
			quantity    = @quantity
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":          pid,
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"quantity":    product.Quantity,
	})
	if err != nil {
		return fmt.Errorf("product update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return ErrProductNotFound
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", pid)
	if err != nil {
		return fmt.Errorf("product delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r postgresProductRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	where, args := sqlWhere(filter)

	rows, err := r.db.Query(ctx, "SELECT "+productColumns+" FROM products"+where+" ORDER BY id ASC", args)
	if err != nil {
		return nil, fmt.Errorf("product list: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("product list: %w", err)
	}

	return products, nil
}

func (r postgresProductRepository) FindProducts(ctx context.Context, query ProductQuery) (FindProductsResult, error) {
	where, args := sqlWhere(query.Filter)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM products"+where, args).Scan(&total); err != nil {
		return FindProductsResult{}, fmt.Errorf("product count: %w", err)
	}
	if total == 0 || query.Offset() >= total {
		return FindProductsResult{Products: []model.Product{}, Total: total}, nil
	}

	args["limit"] = query.Size
	args["offset"] = query.Offset()

	rows, err := r.db.Query(ctx,
		"SELECT "+productColumns+" FROM products"+where+sqlOrderBy(query.Sort)+" LIMIT @limit OFFSET @offset",
		args,
	)
	if err != nil {
		return FindProductsResult{}, fmt.Errorf("product find: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return FindProductsResult{}, fmt.Errorf("product find: %w", err)
	}

	return FindProductsResult{Products: products, Total: total}, nil
}

// sqlWhere translates a ProductFilter into a WHERE clause with named arguments.
func sqlWhere(f ProductFilter) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	var conds []string

	if f.OwnerID != nil {
		conds = append(conds, "owner_id = @owner_id")
		args["owner_id"] = *f.OwnerID
	}
	if f.Search != nil {
		conds = append(conds, "strpos(lower(name), lower(@search)) > 0")
		args["search"] = *f.Search
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= @min_price")
		args["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= @max_price")
		args["max_price"] = *f.MaxPrice
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sqlOrderBy(s ProductSort) string {
	dir := "ASC"
	if s.Direction == SortDesc {
		dir = "DESC"
	}

	col, ok := pgSortColumns[s.Field]
	if !ok || col == "id" {
		return " ORDER BY id " + dir
	}

	return " ORDER BY " + col + " " + dir + ", id ASC"
}

func scanProduct(row pgx.CollectableRow) (model.Product, error) {
	var (
		id    uuid.UUID
		p     model.Product
		price decimal.Decimal
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &price, &p.Quantity, &p.OwnerID); err != nil {
		return model.Product{}, err
	}

	p.ID = id.String()
	p.Price = price
	return p, nil
}
