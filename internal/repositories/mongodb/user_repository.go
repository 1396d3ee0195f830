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

type userRepository struct {
	store      *crudStore[models.User]
	collection *mongo.Collection
	cache      CacheService
}

func NewUserRepository(db *mongo.Database, cache CacheService) interfaces.UserRepository {
	collection := db.Collection("users")
	// Soft-deleted accounts stay in the collection but are invisible here.
	base := bson.M{"active": bson.M{"$ne": false}}

	return &userRepository{
		store:      newCRUDStore[models.User](collection, base),
		collection: collection,
		cache:      cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := r.store.Insert(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.cacheUser(ctx, user)

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user := r.getUserFromCache(ctx, id.Hex()); user != nil {
		return user, nil
	}

	user, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No user found with that ID")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cacheUser(ctx, user)

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{
		"email":  email,
		"active": bson.M{"$ne": false},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No user found with that email")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{
		"password_reset_token":   hash,
		"password_reset_expires": bson.M{"$gt": time.Now()},
		"active":                 bson.M{"$ne": false},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.BadRequest(utils.ErrResetTokenInvalid)
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, opts *utils.QueryOptions) ([]*models.User, int64, error) {
	users, total, err := r.store.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	update["updated_at"] = time.Now()

	user, err := r.store.UpdateByID(ctx, id, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("No user found with that ID")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.invalidateUserCache(ctx, id.Hex())

	return user, nil
}

// Deactivate soft-deletes the account. The document stays for auditability
// but disappears from every default query.
func (r *userRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.store.UpdateByID(ctx, id, bson.M{
		"active":     false,
		"updated_at": time.Now(),
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("No user found with that ID")
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	r.invalidateUserCache(ctx, id.Hex())

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := r.store.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("No user found with that ID")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.invalidateUserCache(ctx, id.Hex())

	return nil
}

// cachedUser mirrors models.User with every field serializable. The model
// hides password fields from client JSON, so caching the model directly
// would drop the data the auth middleware needs.
type cachedUser struct {
	ID                primitive.ObjectID `json:"id"`
	UserName          string             `json:"user_name"`
	Email             string             `json:"email"`
	Photo             string             `json:"photo,omitempty"`
	Role              models.Role        `json:"role"`
	Password          string             `json:"password"`
	PasswordChangedAt *time.Time         `json:"password_changed_at,omitempty"`
	Active            bool               `json:"active"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Cache operations
func (r *userRepository) cacheUser(ctx context.Context, user *models.User) {
	if r.cache != nil {
		key := utils.CacheUserPrefix + user.ID.Hex()
		r.cache.Set(ctx, key, &cachedUser{
			ID:                user.ID,
			UserName:          user.UserName,
			Email:             user.Email,
			Photo:             user.Photo,
			Role:              user.Role,
			Password:          user.Password,
			PasswordChangedAt: user.PasswordChangedAt,
			Active:            user.Active,
			CreatedAt:         user.CreatedAt,
			UpdatedAt:         user.UpdatedAt,
		}, utils.CacheUserTTL)
	}
}

func (r *userRepository) getUserFromCache(ctx context.Context, userID string) *models.User {
	if r.cache == nil {
		return nil
	}

	var cached cachedUser
	if err := r.cache.Get(ctx, utils.CacheUserPrefix+userID, &cached); err != nil {
		return nil
	}

	return &models.User{
		ID:                cached.ID,
		UserName:          cached.UserName,
		Email:             cached.Email,
		Photo:             cached.Photo,
		Role:              cached.Role,
		Password:          cached.Password,
		PasswordChangedAt: cached.PasswordChangedAt,
		Active:            cached.Active,
		CreatedAt:         cached.CreatedAt,
		UpdatedAt:         cached.UpdatedAt,
	}
}

func (r *userRepository) invalidateUserCache(ctx context.Context, userID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheUserPrefix+userID)
	}
}
