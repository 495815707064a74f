// Package repository implements the auth store interfaces on MongoDB.
// Uniqueness of email, cpf and product title is enforced by unique indexes
// created in EnsureIndexes; a check-then-insert sequence alone could let two
// concurrent registrations with the same email both succeed.
package repository

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Manager exposes all repositories over one database handle.
type Manager struct {
	db       *mongo.Database
	users    *Users
	products *Products
}

// NewManager builds the repository manager.
func NewManager(db *mongo.Database) *Manager {
	return &Manager{
		db:       db,
		users:    NewUsers(db),
		products: NewProducts(db),
	}
}

func (m *Manager) Users() *Users       { return m.users }
func (m *Manager) Products() *Products { return m.products }

// EnsureIndexes provisions the index set the core relies on: the unique
// constraints plus the lookup and listing indexes.
func (m *Manager) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "cpf", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "confirmation_token", Value: 1}}},
		{Keys: bson.D{{Key: "confirmed_token", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "confirmed", Value: 1}}},
	}
	if _, err := m.db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user indexes")
	}

	productIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "on_sale", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "on_sale", Value: 1}, {Key: "sale_price", Value: 1}}},
		{Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "category", Value: "text"},
		}},
	}
	if _, err := m.db.Collection("products").Indexes().CreateMany(ctx, productIndexes); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create product indexes")
	}

	return nil
}

// Ping verifies the database connection is usable.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.db.Client().Ping(ctx, nil); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "database connection failed")
	}
	return nil
}
