package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/internal/validators"
	"gotours/pkg/logger"
)

type UserService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, opts *utils.QueryOptions) ([]*models.User, int64, error)
	UpdateMe(ctx context.Context, id primitive.ObjectID, request *UpdateMeRequest) (*models.User, error)
	DeleteMe(ctx context.Context, id primitive.ObjectID) error
	AdminUpdate(ctx context.Context, id primitive.ObjectID, request *AdminUpdateUserRequest) (*models.User, error)
	AdminDelete(ctx context.Context, id primitive.ObjectID) error
}

type userService struct {
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

// UpdateMeRequest enumerates the fields a user may change on their own
// profile. The password field exists only to reject misdirected password
// updates with a useful message.
type UpdateMeRequest struct {
	UserName string `json:"user_name" validate:"omitempty,min=2,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Photo    string `json:"photo"`
	Password string `json:"password"`
}

// AdminUpdateUserRequest is the admin-only partial update.
type AdminUpdateUserRequest struct {
	UserName string      `json:"user_name" validate:"omitempty,min=2,max=50"`
	Email    string      `json:"email" validate:"omitempty,email"`
	Photo    string      `json:"photo"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
}

func NewUserService(userRepo interfaces.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, opts *utils.QueryOptions) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, opts)
}

func (s *userService) UpdateMe(ctx context.Context, id primitive.ObjectID, request *UpdateMeRequest) (*models.User, error) {
	if request.Password != "" {
		return nil, apperrors.BadRequest("This route is not for password updates. Please use /update-password")
	}

	if err := validators.ValidateStruct(request); err != nil {
		return nil, err
	}

	update := bson.M{}
	if request.UserName != "" {
		update["user_name"] = request.UserName
	}
	if request.Email != "" {
		update["email"] = utils.NormalizeEmail(request.Email)
	}
	if request.Photo != "" {
		update["photo"] = request.Photo
	}

	if len(update) == 0 {
		return nil, apperrors.BadRequest("Please provide user_name, email or photo")
	}

	return s.userRepo.Update(ctx, id, update)
}

func (s *userService) DeleteMe(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.logger.WithUserID(id).Info("User deactivated their account")

	return nil
}

func (s *userService) AdminUpdate(ctx context.Context, id primitive.ObjectID, request *AdminUpdateUserRequest) (*models.User, error) {
	if err := validators.ValidateStruct(request); err != nil {
		return nil, err
	}

	update := bson.M{}
	if request.UserName != "" {
		update["user_name"] = request.UserName
	}
	if request.Email != "" {
		update["email"] = utils.NormalizeEmail(request.Email)
	}
	if request.Photo != "" {
		update["photo"] = request.Photo
	}
	if request.Role != "" {
		update["role"] = request.Role
	}

	if len(update) == 0 {
		return nil, apperrors.BadRequest("No updatable fields provided")
	}

	return s.userRepo.Update(ctx, id, update)
}

func (s *userService) AdminDelete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithUserID(id).Info("User deleted by admin")

	return nil
}
