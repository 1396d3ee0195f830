package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/utils"
)

// UserRepository exposes only active users; soft-deleted accounts are
// invisible to every lookup.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	List(ctx context.Context, opts *utils.QueryOptions) ([]*models.User, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
