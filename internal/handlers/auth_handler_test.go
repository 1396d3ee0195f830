package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/services"
	"gotours/internal/utils"
)

// stubAuthService returns a fixed user and token for every call.
type stubAuthService struct {
	user  *models.User
	token string
}

func (s *stubAuthService) Signup(context.Context, *services.SignupRequest) (*models.User, string, error) {
	return s.user, s.token, nil
}

func (s *stubAuthService) Login(context.Context, *services.LoginRequest) (*models.User, string, error) {
	return s.user, s.token, nil
}

func (s *stubAuthService) ForgotPassword(context.Context, string) error { return nil }

func (s *stubAuthService) ResetPassword(context.Context, string, *services.ResetPasswordRequest) (*models.User, string, error) {
	return s.user, s.token, nil
}

func (s *stubAuthService) UpdatePassword(context.Context, primitive.ObjectID, *services.UpdatePasswordRequest) (*models.User, string, error) {
	return s.user, s.token, nil
}

func TestLoginSetsHTTPOnlyCookieAndToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewAuthHandler(
		&stubAuthService{
			user:  &models.User{ID: primitive.NewObjectID(), Email: "test@example.com"},
			token: "signed.jwt.token",
		},
		&config.SecurityConfig{JWTTTL: time.Hour, CookieTTLDays: 90},
		false,
	)

	router := gin.New()
	router.POST("/login", handler.Login)

	body := strings.NewReader(`{"email":"test@example.com","password":"password123"}`)
	req := httptest.NewRequest("POST", "/login", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, utils.StatusSuccess, envelope.Status)
	assert.Equal(t, "signed.jwt.token", envelope.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "jwt", cookie.Name)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure, "cookie must be secure outside development")
	assert.Equal(t, 90*24*60*60, cookie.MaxAge)
}

func TestLoginCookieNotSecureInDevelopment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewAuthHandler(
		&stubAuthService{
			user:  &models.User{ID: primitive.NewObjectID()},
			token: "signed.jwt.token",
		},
		&config.SecurityConfig{JWTTTL: time.Hour, CookieTTLDays: 90},
		true,
	)

	router := gin.New()
	router.POST("/login", handler.Login)

	body := strings.NewReader(`{"email":"test@example.com","password":"password123"}`)
	req := httptest.NewRequest("POST", "/login", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}
