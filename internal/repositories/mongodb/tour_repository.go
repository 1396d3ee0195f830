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

type tourRepository struct {
	store      *crudStore[models.Tour]
	collection *mongo.Collection
}

func NewTourRepository(db *mongo.Database) interfaces.TourRepository {
	collection := db.Collection("tours")
	// Secret tours never show up in default reads or aggregations.
	base := bson.M{"secret": bson.M{"$ne": true}}

	return &tourRepository{
		store:      newCRUDStore[models.Tour](collection, base),
		collection: collection,
	}
}

func (r *tourRepository) Create(ctx context.Context, tour *models.Tour) error {
	tour.ID = primitive.NewObjectID()
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = time.Now()

	if err := r.store.Insert(ctx, tour); err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	return nil
}

func (r *tourRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	tour, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No tour found with that ID")
		}
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}

	return tour, nil
}

func (r *tourRepository) List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Tour, int64, error) {
	tours, total, err := r.store.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, total, nil
}

func (r *tourRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Tour, error) {
	update["updated_at"] = time.Now()

	tour, err := r.store.UpdateByID(ctx, id, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No tour found with that ID")
		}
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}

	return tour, nil
}

func (r *tourRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := r.store.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("No tour found with that ID")
		}
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	return nil
}

// Stats groups non-secret tours by difficulty with rating and price
// aggregates, restricted to tours rated at or above minRating.
func (r *tourRepository) Stats(ctx context.Context, minRating float64) ([]*models.TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"secret":          bson.M{"$ne": true},
			"ratings_average": bson.M{"$gte": minRating},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$difficulty",
			"num_tours":   bson.M{"$sum": 1},
			"num_ratings": bson.M{"$sum": "$ratings_quantity"},
			"avg_rating":  bson.M{"$avg": "$ratings_average"},
			"avg_price":   bson.M{"$avg": "$price"},
			"min_price":   bson.M{"$min": "$price"},
			"max_price":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avg_price": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tour stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []*models.TourStats
	for cursor.Next(ctx) {
		var entry models.TourStats
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode tour stats: %w", err)
		}
		stats = append(stats, &entry)
	}

	return stats, cursor.Err()
}

// MonthlyPlan unwinds start dates into per-month buckets for the given year.
func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"secret": bson.M{"$ne": true}}}},
		{{Key: "$unwind", Value: "$start_dates"}},
		{{Key: "$match", Value: bson.M{
			"start_dates": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$month": "$start_dates"},
			"num_starts": bson.M{"$sum": 1},
			"tours":      bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"num_starts": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly plan: %w", err)
	}
	defer cursor.Close(ctx)

	var plan []*models.MonthlyPlanEntry
	for cursor.Next(ctx) {
		var entry models.MonthlyPlanEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode monthly plan: %w", err)
		}
		plan = append(plan, &entry)
	}

	return plan, cursor.Err()
}
