package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/utils"
)

type TourRepository interface {
	Create(ctx context.Context, tour *models.Tour) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error)
	List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Tour, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	Stats(ctx context.Context, minRating float64) ([]*models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error)
}
