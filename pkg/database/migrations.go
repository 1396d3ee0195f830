package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application depends on. Safe to run
// on every startup; index creation is idempotent.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := createUsersIndexes(ctx, db); err != nil {
		return err
	}
	if err := createToursIndexes(ctx, db); err != nil {
		return err
	}
	return createReviewsIndexes(ctx, db)
}

func createUsersIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("users")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "password_reset_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createToursIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("tours")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratings_average", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "start_location", Value: "2dsphere"}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createReviewsIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("reviews")

	// One review per (tour, user) pair.
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tour", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
