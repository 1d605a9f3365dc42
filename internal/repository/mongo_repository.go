package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cinema/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrLineNotFound = errors.New("line not found in cart")
)

type mongoRepository struct {
	collection *mongo.Collection
}

func (m mongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m mongoRepository) AddProduct(ctx context.Context, userID string, product domain.Product) error {
	now := time.Now()

	// Bump an existing line first. The filter only matches when the line
	// is already present, so this arm never creates a duplicate.
	inc := bson.M{
		"$inc": bson.M{"lines.$[elem].quantity": 1},
		"$set": bson.M{"updated_at": now},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.product.id": product.ID},
		},
	})

	res, err := m.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "lines.product.id": product.ID}, inc, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to increment existing line: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// No such line yet: push it, guarded by the same product-id condition
	// so a racing push cannot land twice. The upsert creates the cart
	// document when the user has none; a duplicate-key error on the unique
	// user_id index means another writer got there first, so start over.
	push := bson.M{
		"$push":        bson.M{"lines": domain.CartLine{Product: product, Quantity: 1}},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err = m.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "lines.product.id": bson.M{"$ne": product.ID}},
		push, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return m.AddProduct(ctx, userID, product)
	}
	if err != nil {
		return fmt.Errorf("failed to append new line: %w", err)
	}

	return nil
}

func (m mongoRepository) SetLineQuantity(ctx context.Context, userID, productID string, quantity int) error {
	filter := bson.M{
		"user_id":          userID,
		"lines.product.id": productID,
	}

	update := bson.M{
		"$set": bson.M{
			"lines.$[elem].quantity": quantity,
			"updated_at":             time.Now(),
		},
	}

	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.product.id": productID},
		},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to set line quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (m mongoRepository) RemoveLine(ctx context.Context, userID, productID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{
			"lines": bson.M{"product.id": productID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove line: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m mongoRepository) DeleteCart(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}
