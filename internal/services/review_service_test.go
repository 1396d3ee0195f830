package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/models"
)

func newReviewFixture(t *testing.T) (*fakeReviewRepo, *fakeTourRepo, ReviewService, *models.Tour) {
	t.Helper()

	reviewRepo := newFakeReviewRepo()
	tourRepo := newFakeTourRepo()
	svc := NewReviewService(reviewRepo, tourRepo, newTestLogger())

	tour := &models.Tour{
		Name:            "The Forest Hiker",
		RatingsAverage:  models.DefaultRatingsAverage,
		RatingsQuantity: models.DefaultRatingsQuantity,
	}
	require.NoError(t, tourRepo.Create(context.Background(), tour))

	return reviewRepo, tourRepo, svc, tour
}

func reviewer(role models.Role) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: role, Active: true}
}

func TestCreateReviewRecomputesTourRatings(t *testing.T) {
	_, tourRepo, svc, tour := newReviewFixture(t)

	_, err := svc.Create(context.Background(), reviewer(models.RoleUser), &CreateReviewRequest{
		Review: "Loved it",
		Rating: 5,
		Tour:   tour.ID,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), reviewer(models.RoleUser), &CreateReviewRequest{
		Review: "Decent",
		Rating: 4,
		Tour:   tour.ID,
	})
	require.NoError(t, err)

	stored := tourRepo.tours[tour.ID]
	assert.InDelta(t, 4.5, stored.RatingsAverage, 0.0001)
	assert.Equal(t, int64(2), stored.RatingsQuantity)
}

func TestCreateReviewRequiresExistingTour(t *testing.T) {
	_, _, svc, _ := newReviewFixture(t)

	_, err := svc.Create(context.Background(), reviewer(models.RoleUser), &CreateReviewRequest{
		Review: "Loved it",
		Rating: 5,
		Tour:   primitive.NewObjectID(),
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Translate(err).Code)
}

func TestDuplicateReviewPerTourAndUserRejected(t *testing.T) {
	_, _, svc, tour := newReviewFixture(t)
	author := reviewer(models.RoleUser)

	_, err := svc.Create(context.Background(), author, &CreateReviewRequest{
		Review: "First impression",
		Rating: 4,
		Tour:   tour.ID,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), author, &CreateReviewRequest{
		Review: "Second thoughts",
		Rating: 2,
		Tour:   tour.ID,
	})
	require.Error(t, err)

	appErr := apperrors.Translate(err)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "Duplicate field value")
}

func TestDeleteLastReviewResetsRatingDefaults(t *testing.T) {
	_, tourRepo, svc, tour := newReviewFixture(t)
	author := reviewer(models.RoleUser)

	review, err := svc.Create(context.Background(), author, &CreateReviewRequest{
		Review: "Loved it",
		Rating: 5,
		Tour:   tour.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), tourRepo.tours[tour.ID].RatingsQuantity)

	require.NoError(t, svc.Delete(context.Background(), author, review.ID))

	stored := tourRepo.tours[tour.ID]
	assert.InDelta(t, models.DefaultRatingsAverage, stored.RatingsAverage, 0.0001)
	assert.Equal(t, int64(models.DefaultRatingsQuantity), stored.RatingsQuantity)
}

func TestUpdateReviewRecomputesRatings(t *testing.T) {
	_, tourRepo, svc, tour := newReviewFixture(t)
	author := reviewer(models.RoleUser)

	review, err := svc.Create(context.Background(), author, &CreateReviewRequest{
		Review: "Loved it",
		Rating: 5,
		Tour:   tour.ID,
	})
	require.NoError(t, err)

	newRating := 3.0
	_, err = svc.Update(context.Background(), author, review.ID, &UpdateReviewRequest{
		Rating: &newRating,
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, tourRepo.tours[tour.ID].RatingsAverage, 0.0001)
}

func TestReviewOwnershipEnforcedForPlainUsers(t *testing.T) {
	_, _, svc, tour := newReviewFixture(t)
	author := reviewer(models.RoleUser)
	stranger := reviewer(models.RoleUser)
	admin := reviewer(models.RoleAdmin)

	review, err := svc.Create(context.Background(), author, &CreateReviewRequest{
		Review: "Loved it",
		Rating: 5,
		Tour:   tour.ID,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), stranger, review.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.Translate(err).Code)

	// Admins may touch any review.
	require.NoError(t, svc.Delete(context.Background(), admin, review.ID))
}

func TestUpdateReviewRejectsEmptyBody(t *testing.T) {
	_, _, svc, tour := newReviewFixture(t)
	author := reviewer(models.RoleUser)

	review, err := svc.Create(context.Background(), author, &CreateReviewRequest{
		Review: "Loved it",
		Rating: 5,
		Tour:   tour.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), author, review.ID, &UpdateReviewRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.Translate(err).Code)
}
