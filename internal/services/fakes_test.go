package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

func newTestLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "test logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

// fakeUserRepo is an in-memory UserRepository. Updates apply the same bson
// field names the mongo repository uses.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code:    11000,
				Message: fmt.Sprintf(`E11000 duplicate key error dup key: { email: "%s" }`, user.Email),
			}}}
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok || !user.Active {
		return nil, apperrors.NotFound("No user found with that ID")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email && user.Active {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetByResetTokenHash(_ context.Context, hash string) (*models.User, error) {
	for _, user := range r.users {
		if user.Active && user.PasswordResetToken != "" && user.PasswordResetToken == hash &&
			user.PasswordResetExpires != nil && user.PasswordResetExpires.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.BadRequest(utils.ErrResetTokenInvalid)
}

func (r *fakeUserRepo) List(_ context.Context, _ *utils.QueryOptions) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		if user.Active {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	user, ok := r.users[id]
	if !ok || !user.Active {
		return nil, apperrors.NotFound("No user found with that ID")
	}
	for key, value := range update {
		switch key {
		case "user_name":
			user.UserName = value.(string)
		case "email":
			user.Email = value.(string)
		case "photo":
			user.Photo = value.(string)
		case "role":
			user.Role = value.(models.Role)
		case "password":
			user.Password = value.(string)
		case "password_changed_at":
			t := value.(time.Time)
			user.PasswordChangedAt = &t
		case "password_reset_token":
			user.PasswordResetToken = value.(string)
		case "password_reset_expires":
			switch v := value.(type) {
			case nil:
				user.PasswordResetExpires = nil
			case *time.Time:
				user.PasswordResetExpires = v
			default:
				t := v.(time.Time)
				user.PasswordResetExpires = &t
			}
		}
	}
	user.UpdatedAt = time.Now()
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("No user found with that ID")
	}
	user.Active = false
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("No user found with that ID")
	}
	delete(r.users, id)
	return nil
}

// fakeTourRepo is an in-memory TourRepository.
type fakeTourRepo struct {
	tours map[primitive.ObjectID]*models.Tour
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: make(map[primitive.ObjectID]*models.Tour)}
}

func (r *fakeTourRepo) Create(_ context.Context, tour *models.Tour) error {
	tour.ID = primitive.NewObjectID()
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = time.Now()
	r.tours[tour.ID] = tour
	return nil
}

func (r *fakeTourRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Tour, error) {
	tour, ok := r.tours[id]
	if !ok || tour.Secret {
		return nil, apperrors.NotFound("No tour found with that ID")
	}
	copied := *tour
	return &copied, nil
}

func (r *fakeTourRepo) List(_ context.Context, _ *utils.QueryOptions) ([]*models.Tour, int64, error) {
	out := make([]*models.Tour, 0, len(r.tours))
	for _, tour := range r.tours {
		if !tour.Secret {
			copied := *tour
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTourRepo) Update(_ context.Context, id primitive.ObjectID, update bson.M) (*models.Tour, error) {
	tour, ok := r.tours[id]
	if !ok {
		return nil, apperrors.NotFound("No tour found with that ID")
	}
	for key, value := range update {
		switch key {
		case "name":
			tour.Name = value.(string)
		case "slug":
			tour.Slug = value.(string)
		case "price":
			tour.Price = value.(float64)
		case "ratings_average":
			tour.RatingsAverage = value.(float64)
		case "ratings_quantity":
			tour.RatingsQuantity = value.(int64)
		}
	}
	tour.UpdatedAt = time.Now()
	copied := *tour
	return &copied, nil
}

func (r *fakeTourRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.tours[id]; !ok {
		return apperrors.NotFound("No tour found with that ID")
	}
	delete(r.tours, id)
	return nil
}

func (r *fakeTourRepo) Stats(_ context.Context, _ float64) ([]*models.TourStats, error) {
	return nil, nil
}

func (r *fakeTourRepo) MonthlyPlan(_ context.Context, _ int) ([]*models.MonthlyPlanEntry, error) {
	return nil, nil
}

// fakeReviewRepo is an in-memory ReviewRepository enforcing the unique
// (tour, user) constraint the real collection index provides.
type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	for _, existing := range r.reviews {
		if existing.Tour == review.Tour && existing.User == review.User {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code:    11000,
				Message: "E11000 duplicate key error dup key: { tour: ..., user: ... }",
			}}}
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("No review found with that ID")
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) List(_ context.Context, opts *utils.QueryOptions) ([]*models.Review, int64, error) {
	out := make([]*models.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if opts != nil && opts.Filter != nil {
			if tourID, ok := opts.Filter["tour"].(primitive.ObjectID); ok && review.Tour != tourID {
				continue
			}
		}
		copied := *review
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) Update(_ context.Context, id primitive.ObjectID, update bson.M) (*models.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("No review found with that ID")
	}
	for key, value := range update {
		switch key {
		case "review":
			review.Review = value.(string)
		case "rating":
			review.Rating = value.(float64)
		}
	}
	review.UpdatedAt = time.Now()
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.reviews[id]; !ok {
		return apperrors.NotFound("No review found with that ID")
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) RatingStats(_ context.Context, tourID primitive.ObjectID) (*models.RatingStats, error) {
	var sum float64
	var count int64
	for _, review := range r.reviews {
		if review.Tour == tourID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	return &models.RatingStats{AvgRating: sum / float64(count), NumRating: count}, nil
}

// fakeMailer records sent mail and can be told to fail.
type fakeMailer struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("smtp connection refused")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
