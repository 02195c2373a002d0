package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tuanvumaihuynh/product-service/internal/model"
)

var _ ProductRepository = (*mongoProductRepository)(nil)

type mongoProduct struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int                  `bson:"quantity"`
	OwnerID     string               `bson:"ownerId"`
}

var mongoSortKeys = map[SortField]string{
	SortFieldID:          "_id",
	SortFieldName:        "name",
	SortFieldDescription: "description",
	SortFieldPrice:       "price",
	SortFieldQuantity:    "quantity",
	SortFieldOwnerID:     "ownerId",
}

type mongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(coll *mongo.Collection) ProductRepository {
	return &mongoProductRepository{coll: coll}
}

// EnsureProductIndexes creates the owner and name indexes on the products collection.
func EnsureProductIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index().SetName("idx_products_owner_id"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_products_name"),
		},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}

	return nil
}

func (r *mongoProductRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	doc, err := toMongoProduct(product)
	if err != nil {
		return model.Product{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	product.ID = doc.ID.Hex()
	return product, nil
}

func (r *mongoProductRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Product{}, ErrProductNotFound
	}

	var doc mongoProduct
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("find product: %w", err)
	}

	return fromMongoProduct(doc)
}

func (r *mongoProductRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return ErrProductNotFound
	}

	price, err := toDecimal128(product.Price)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"name":        product.Name,
			"description": product.Description,
			"price":       price,
			"quantity":    product.Quantity,
		},
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *mongoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *mongoProductRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	f, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, f, opts)
}

func (r *mongoProductRepository) FindProducts(ctx context.Context, query ProductQuery) (FindProductsResult, error) {
	f, err := mongoFilter(query.Filter)
	if err != nil {
		return FindProductsResult{}, err
	}

	total, err := r.coll.CountDocuments(ctx, f)
	if err != nil {
		return FindProductsResult{}, fmt.Errorf("count products: %w", err)
	}
	if total == 0 || query.Offset() >= total {
		return FindProductsResult{Products: []model.Product{}, Total: total}, nil
	}

	opts := options.Find().
		SetSort(mongoSort(query.Sort)).
		SetSkip(query.Offset()).
		SetLimit(int64(query.Size))

	products, err := r.find(ctx, f, opts)
	if err != nil {
		return FindProductsResult{}, err
	}

	return FindProductsResult{Products: products, Total: total}, nil
}

func (r *mongoProductRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]model.Product, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := fromMongoProduct(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

// mongoFilter translates a ProductFilter into a bson query document.
func mongoFilter(f ProductFilter) (bson.D, error) {
	filter := bson.D{}

	if f.OwnerID != nil {
		filter = append(filter, bson.E{Key: "ownerId", Value: *f.OwnerID})
	}
	if f.Search != nil {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(*f.Search),
			Options: "i",
		}})
	}

	price := bson.D{}
	if f.MinPrice != nil {
		v, err := toDecimal128(*f.MinPrice)
		if err != nil {
			return nil, err
		}
		price = append(price, bson.E{Key: "$gte", Value: v})
	}
	if f.MaxPrice != nil {
		v, err := toDecimal128(*f.MaxPrice)
		if err != nil {
			return nil, err
		}
		price = append(price, bson.E{Key: "$lte", Value: v})
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: "price", Value: price})
	}

	return filter, nil
}

func mongoSort(s ProductSort) bson.D {
	dir := 1
	if s.Direction == SortDesc {
		dir = -1
	}

	key, ok := mongoSortKeys[s.Field]
	if !ok || key == "_id" {
		return bson.D{{Key: "_id", Value: dir}}
	}

	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}
}

func toMongoProduct(p model.Product) (mongoProduct, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return mongoProduct{}, err
	}

	return mongoProduct{
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Quantity:    p.Quantity,
		OwnerID:     p.OwnerID,
	}, nil
}

func fromMongoProduct(doc mongoProduct) (model.Product, error) {
	coef, exp, err := doc.Price.BigInt()
	if err != nil {
		return model.Product{}, fmt.Errorf("decode price of product %s: %w", doc.ID.Hex(), err)
	}

	return model.Product{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Price:       decimal.NewFromBigInt(coef, int32(exp)),
		Quantity:    doc.Quantity,
		OwnerID:     doc.OwnerID,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return primitive.Decimal128{}, fmt.Errorf("price %s out of decimal128 range", d.String())
	}
	return v, nil
}
