package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/utils"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Review, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// RatingStats aggregates all reviews for one tour. Returns nil when the
	// tour has no reviews left.
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (*models.RatingStats, error)
}
