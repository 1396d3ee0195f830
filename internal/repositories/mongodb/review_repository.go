package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
)

type reviewRepository struct {
	store      *crudStore[models.Review]
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	collection := db.Collection("reviews")

	return &reviewRepository{
		store:      newCRUDStore[models.Review](collection, bson.M{}),
		collection: collection,
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()

	if err := r.store.Insert(ctx, review); err != nil {
		// Leave duplicate-key errors intact; the unique (tour, user) index
		// violation is translated downstream.
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	review, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No review found with that ID")
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Review, int64, error) {
	reviews, total, err := r.store.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Review, error) {
	update["updated_at"] = time.Now()

	review, err := r.store.UpdateByID(ctx, id, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No review found with that ID")
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := r.store.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("No review found with that ID")
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func (r *reviewRepository) RatingStats(ctx context.Context, tourID primitive.ObjectID) (*models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$tour",
			"avg_rating": bson.M{"$avg": "$rating"},
			"num_rating": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review ratings: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return nil, cursor.Err()
	}

	var stats models.RatingStats
	if err := cursor.Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode rating stats: %w", err)
	}

	return &stats, nil
}
