package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasChangedPasswordAfter(t *testing.T) {
	user := &User{}
	assert.False(t, user.HasChangedPasswordAfter(time.Now()), "no change recorded")

	changed := time.Now()
	user.PasswordChangedAt = &changed

	assert.True(t, user.HasChangedPasswordAfter(changed.Add(-time.Minute)),
		"token issued before the change is stale")
	assert.True(t, user.HasChangedPasswordAfter(changed),
		"token issued in the same instant is stale")
	assert.False(t, user.HasChangedPasswordAfter(changed.Add(time.Minute)),
		"token issued after the change is fresh")
}

func TestHasAnyRole(t *testing.T) {
	user := &User{Role: RoleLeadGuide}

	assert.True(t, user.HasAnyRole(RoleAdmin, RoleLeadGuide))
	assert.False(t, user.HasAnyRole(RoleAdmin))
	assert.False(t, user.HasAnyRole())
}

func TestNewPasswordResetTokenStoresOnlyHash(t *testing.T) {
	user := &User{}

	raw, err := user.NewPasswordResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64, "raw token is 32 random bytes hex encoded")
	assert.NotEqual(t, raw, user.PasswordResetToken)
	assert.Equal(t, HashResetToken(raw), user.PasswordResetToken)

	require.NotNil(t, user.PasswordResetExpires)
	assert.WithinDuration(t, time.Now().Add(PasswordResetTokenTTL), *user.PasswordResetExpires, 5*time.Second)
}

func TestResetTokensAreUnique(t *testing.T) {
	a := &User{}
	b := &User{}

	rawA, err := a.NewPasswordResetToken()
	require.NoError(t, err)
	rawB, err := b.NewPasswordResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, rawA, rawB)
}

func TestUserJSONHidesSensitiveFields(t *testing.T) {
	now := time.Now()
	user := &User{
		UserName:             "Test User",
		Email:                "test@example.com",
		Password:             "$2a$10$hash",
		PasswordChangedAt:    &now,
		PasswordResetToken:   "hash",
		PasswordResetExpires: &now,
		Active:               true,
	}

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), "$2a$10$hash")
	assert.NotContains(t, string(payload), "active")
}

func TestTourJSONAddsDurationWeeks(t *testing.T) {
	tour := Tour{Name: "The Forest Hiker", Duration: 14}

	payload, err := json.Marshal(tour)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, float64(2), decoded["duration_weeks"])
}

func TestTourJSONHidesSecretFlag(t *testing.T) {
	tour := Tour{Name: "Hush Hush Expedition", Secret: true}

	payload, err := json.Marshal(tour)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret")
}
