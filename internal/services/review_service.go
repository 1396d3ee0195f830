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

type ReviewService interface {
	Create(ctx context.Context, author *models.User, request *CreateReviewRequest) (*models.Review, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Review, int64, error)
	Update(ctx context.Context, actor *models.User, id primitive.ObjectID, request *UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error
}

type reviewService struct {
	reviewRepo interfaces.ReviewRepository
	tourRepo   interfaces.TourRepository
	logger     *logger.Logger
}

type CreateReviewRequest struct {
	Review string             `json:"review" validate:"required"`
	Rating float64            `json:"rating" validate:"required,min=1,max=5"`
	Tour   primitive.ObjectID `json:"tour" validate:"required"`
}

type UpdateReviewRequest struct {
	Review *string  `json:"review"`
	Rating *float64 `json:"rating" validate:"omitempty,min=1,max=5"`
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	tourRepo interfaces.TourRepository,
	logger *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		tourRepo:   tourRepo,
		logger:     logger,
	}
}

func (s *reviewService) Create(ctx context.Context, author *models.User, request *CreateReviewRequest) (*models.Review, error) {
	if err := validators.ValidateStruct(request); err != nil {
		return nil, err
	}

	// The tour must exist and be visible before a review can attach to it.
	if _, err := s.tourRepo.GetByID(ctx, request.Tour); err != nil {
		return nil, err
	}

	review := &models.Review{
		Review: request.Review,
		Rating: request.Rating,
		Tour:   request.Tour,
		User:   author.ID,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.syncTourRatings(ctx, review.Tour); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id": review.ID.Hex(),
		"tour_id":   review.Tour.Hex(),
	}).Info("Review created")

	return review, nil
}

func (s *reviewService) Get(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

func (s *reviewService) List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Review, int64, error) {
	return s.reviewRepo.List(ctx, opts)
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, id primitive.ObjectID, request *UpdateReviewRequest) (*models.Review, error) {
	if err := validators.ValidateStruct(request); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOwner(actor, review); err != nil {
		return nil, err
	}

	update := bson.M{}
	if request.Review != nil {
		update["review"] = *request.Review
	}
	if request.Rating != nil {
		update["rating"] = *request.Rating
	}

	if len(update) == 0 {
		return nil, apperrors.BadRequest("Please provide review or rating")
	}

	updated, err := s.reviewRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if err := s.syncTourRatings(ctx, updated.Tour); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeOwner(actor, review); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.syncTourRatings(ctx, review.Tour); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id": id.Hex(),
		"tour_id":   review.Tour.Hex(),
	}).Info("Review deleted")

	return nil
}

// authorizeOwner lets admins act on any review and everyone else only on
// their own.
func (s *reviewService) authorizeOwner(actor *models.User, review *models.Review) error {
	if actor.HasAnyRole(models.RoleAdmin) {
		return nil
	}
	if review.User != actor.ID {
		return apperrors.Forbidden("You can only modify your own reviews")
	}
	return nil
}

// syncTourRatings recomputes the tour's rating aggregate from its reviews.
// When the last review disappears the tour falls back to the defaults.
func (s *reviewService) syncTourRatings(ctx context.Context, tourID primitive.ObjectID) error {
	stats, err := s.reviewRepo.RatingStats(ctx, tourID)
	if err != nil {
		return err
	}

	average := float64(models.DefaultRatingsAverage)
	quantity := int64(models.DefaultRatingsQuantity)
	if stats != nil {
		average = stats.AvgRating
		quantity = stats.NumRating
	}

	_, err = s.tourRepo.Update(ctx, tourID, bson.M{
		"ratings_average":  average,
		"ratings_quantity": quantity,
	})
	return err
}
