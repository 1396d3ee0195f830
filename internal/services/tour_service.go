package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/internal/validators"
	"gotours/pkg/logger"
)

// Minimum average rating a tour must have to show up in the stats report.
const statsMinRating = 4.5

type TourService interface {
	Create(ctx context.Context, request *CreateTourRequest) (*models.Tour, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Tour, error)
	List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Tour, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateTourRequest) (*models.Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	Stats(ctx context.Context) ([]*models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error)
}

type tourService struct {
	tourRepo   interfaces.TourRepository
	reviewRepo interfaces.ReviewRepository
	logger     *logger.Logger
}

type CreateTourRequest struct {
	Name          string               `json:"name"`
	Duration      int                  `json:"duration"`
	MaxGroupSize  int                  `json:"max_group_size"`
	Difficulty    models.Difficulty    `json:"difficulty"`
	Price         float64              `json:"price"`
	PriceDiscount float64              `json:"price_discount"`
	Summary       string               `json:"summary"`
	Description   string               `json:"description"`
	ImageCover    string               `json:"image_cover"`
	Images        []string             `json:"images"`
	StartDates    []time.Time          `json:"start_dates"`
	StartLocation *models.Location     `json:"start_location"`
	Locations     []models.Location    `json:"locations"`
	Guides        []primitive.ObjectID `json:"guides"`
	Secret        bool                 `json:"secret"`
}

// UpdateTourRequest is a partial update; nil fields are left untouched.
type UpdateTourRequest struct {
	Name          *string              `json:"name"`
	Duration      *int                 `json:"duration"`
	MaxGroupSize  *int                 `json:"max_group_size"`
	Difficulty    *models.Difficulty   `json:"difficulty"`
	Price         *float64             `json:"price"`
	PriceDiscount *float64             `json:"price_discount"`
	Summary       *string              `json:"summary"`
	Description   *string              `json:"description"`
	ImageCover    *string              `json:"image_cover"`
	Images        []string             `json:"images"`
	StartDates    []time.Time          `json:"start_dates"`
	StartLocation *models.Location     `json:"start_location"`
	Locations     []models.Location    `json:"locations"`
	Guides        []primitive.ObjectID `json:"guides"`
	Secret        *bool                `json:"secret"`
}

func NewTourService(
	tourRepo interfaces.TourRepository,
	reviewRepo interfaces.ReviewRepository,
	logger *logger.Logger,
) TourService {
	return &tourService{
		tourRepo:   tourRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

func (s *tourService) Create(ctx context.Context, request *CreateTourRequest) (*models.Tour, error) {
	tour := &models.Tour{
		Name:            request.Name,
		Slug:            utils.Slugify(request.Name),
		Duration:        request.Duration,
		MaxGroupSize:    request.MaxGroupSize,
		Difficulty:      request.Difficulty,
		RatingsAverage:  models.DefaultRatingsAverage,
		RatingsQuantity: models.DefaultRatingsQuantity,
		Price:           request.Price,
		PriceDiscount:   request.PriceDiscount,
		Summary:         request.Summary,
		Description:     request.Description,
		ImageCover:      request.ImageCover,
		Images:          request.Images,
		StartDates:      request.StartDates,
		StartLocation:   request.StartLocation,
		Locations:       request.Locations,
		Guides:          request.Guides,
		Secret:          request.Secret,
	}

	if err := validators.ValidateStruct(tour); err != nil {
		return nil, err
	}

	if err := s.tourRepo.Create(ctx, tour); err != nil {
		return nil, err
	}

	s.logger.WithField("tour_id", tour.ID.Hex()).Info("Tour created")

	return tour, nil
}

// Get returns a single tour with its reviews populated.
func (s *tourService) Get(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	tour, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, _, err := s.reviewRepo.List(ctx, &utils.QueryOptions{
		Filter: bson.M{"tour": id},
		Page:   utils.DefaultPage,
		Limit:  utils.DefaultPageSize,
	})
	if err != nil {
		return nil, err
	}
	tour.Reviews = reviews

	return tour, nil
}

func (s *tourService) List(ctx context.Context, opts *utils.QueryOptions) ([]*models.Tour, int64, error) {
	return s.tourRepo.List(ctx, opts)
}

func (s *tourService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateTourRequest) (*models.Tour, error) {
	// Merge onto the current document so cross-field rules see the final
	// state, then validate before touching the store.
	current, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{}

	if request.Name != nil {
		current.Name = *request.Name
		current.Slug = utils.Slugify(*request.Name)
		update["name"] = current.Name
		update["slug"] = current.Slug
	}
	if request.Duration != nil {
		current.Duration = *request.Duration
		update["duration"] = current.Duration
	}
	if request.MaxGroupSize != nil {
		current.MaxGroupSize = *request.MaxGroupSize
		update["max_group_size"] = current.MaxGroupSize
	}
	if request.Difficulty != nil {
		current.Difficulty = *request.Difficulty
		update["difficulty"] = current.Difficulty
	}
	if request.Price != nil {
		current.Price = *request.Price
		update["price"] = current.Price
	}
	if request.PriceDiscount != nil {
		current.PriceDiscount = *request.PriceDiscount
		update["price_discount"] = current.PriceDiscount
	}
	if request.Summary != nil {
		current.Summary = *request.Summary
		update["summary"] = current.Summary
	}
	if request.Description != nil {
		current.Description = *request.Description
		update["description"] = current.Description
	}
	if request.ImageCover != nil {
		current.ImageCover = *request.ImageCover
		update["image_cover"] = current.ImageCover
	}
	if request.Images != nil {
		current.Images = request.Images
		update["images"] = current.Images
	}
	if request.StartDates != nil {
		current.StartDates = request.StartDates
		update["start_dates"] = current.StartDates
	}
	if request.StartLocation != nil {
		current.StartLocation = request.StartLocation
		update["start_location"] = current.StartLocation
	}
	if request.Locations != nil {
		current.Locations = request.Locations
		update["locations"] = current.Locations
	}
	if request.Guides != nil {
		current.Guides = request.Guides
		update["guides"] = current.Guides
	}
	if request.Secret != nil {
		current.Secret = *request.Secret
		update["secret"] = current.Secret
	}

	if len(update) == 0 {
		return current, nil
	}

	if err := validators.ValidateStruct(current); err != nil {
		return nil, err
	}

	return s.tourRepo.Update(ctx, id, update)
}

func (s *tourService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.tourRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("tour_id", id.Hex()).Info("Tour deleted")

	return nil
}

func (s *tourService) Stats(ctx context.Context) ([]*models.TourStats, error) {
	return s.tourRepo.Stats(ctx, statsMinRating)
}

func (s *tourService) MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error) {
	return s.tourRepo.MonthlyPlan(ctx, year)
}
