package repository

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auth "github.com/vendora/go-auth"
)

const maxPageSize = 100

// Products implements auth.ProductStore on the products collection.
type Products struct {
	col *mongo.Collection
}

var _ auth.ProductStore = (*Products)(nil)

// NewProducts builds the products repository.
func NewProducts(db *mongo.Database) *Products {
	return &Products{col: db.Collection("products")}
}

// Create inserts a product, translating the unique title index into a
// conflict error.
func (r *Products) Create(ctx context.Context, product *auth.Product) (*auth.Product, error) {
	err := r.col.FindOne(ctx, bson.M{"title": product.Title}).Err()
	if err == nil {
		return nil, auth.ErrTitleTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "product uniqueness pre-check failed")
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, auth.ErrTitleTaken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert product")
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}

	return product, nil
}

// List returns a page of products, newest first.
func (r *Products) List(ctx context.Context, page, size int) ([]*auth.Product, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query products")
	}
	defer cursor.Close(ctx)

	products := []*auth.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode products")
	}

	return products, nil
}
