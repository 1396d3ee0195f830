package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotours/internal/apperrors"
	"gotours/internal/models"
)

func newUserFixture(t *testing.T) (*fakeUserRepo, UserService, *models.User) {
	t.Helper()

	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newTestLogger())

	user := &models.User{
		UserName: "Test User",
		Email:    "test@example.com",
		Role:     models.RoleUser,
		Active:   true,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	return userRepo, svc, user
}

func TestUpdateMeRejectsPasswordField(t *testing.T) {
	_, svc, user := newUserFixture(t)

	_, err := svc.UpdateMe(context.Background(), user.ID, &UpdateMeRequest{
		Password: "sneaky-password",
	})
	require.Error(t, err)

	appErr := apperrors.Translate(err)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "/update-password")
}

func TestUpdateMeChangesAllowedFieldsOnly(t *testing.T) {
	userRepo, svc, user := newUserFixture(t)

	updated, err := svc.UpdateMe(context.Background(), user.ID, &UpdateMeRequest{
		UserName: "Renamed User",
		Email:    "Renamed@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.UserName)
	assert.Equal(t, "renamed@example.com", updated.Email)

	// Role and password are untouched.
	stored := userRepo.users[user.ID]
	assert.Equal(t, models.RoleUser, stored.Role)
}

func TestUpdateMeRejectsEmptyBody(t *testing.T) {
	_, svc, user := newUserFixture(t)

	_, err := svc.UpdateMe(context.Background(), user.ID, &UpdateMeRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.Translate(err).Code)
}

func TestDeleteMeSoftDeletes(t *testing.T) {
	userRepo, svc, user := newUserFixture(t)

	require.NoError(t, svc.DeleteMe(context.Background(), user.ID))

	// The document survives but is invisible to lookups.
	stored, exists := userRepo.users[user.ID]
	require.True(t, exists)
	assert.False(t, stored.Active)

	_, err := svc.GetByID(context.Background(), user.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Translate(err).Code)
}

func TestAdminUpdateCanChangeRole(t *testing.T) {
	_, svc, user := newUserFixture(t)

	updated, err := svc.AdminUpdate(context.Background(), user.ID, &AdminUpdateUserRequest{
		Role: models.RoleLeadGuide,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleLeadGuide, updated.Role)
}

func TestAdminDeleteRemovesUser(t *testing.T) {
	userRepo, svc, user := newUserFixture(t)

	require.NoError(t, svc.AdminDelete(context.Background(), user.ID))
	_, exists := userRepo.users[user.ID]
	assert.False(t, exists)
}
