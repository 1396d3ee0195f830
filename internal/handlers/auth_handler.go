package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/config"
	"gotours/internal/middleware"
	"gotours/internal/services"
	"gotours/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
	security    *config.SecurityConfig
	isDev       bool
}

func NewAuthHandler(authService services.AuthService, security *config.SecurityConfig, isDev bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		security:    security,
		isDev:       isDev,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var request services.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), &request)
	if err != nil {
		c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.TokenResponse(c, http.StatusCreated, token, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.TokenResponse(c, http.StatusOK, token, gin.H{"user": user})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Email == "" {
		c.Error(apperrors.BadRequest("Please provide your email address"))
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), request.Email); err != nil {
		c.Error(err)
		return
	}

	utils.MessageResponse(c, "Token sent to email")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var request services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &request)
	if err != nil {
		c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.TokenResponse(c, http.StatusOK, token, gin.H{"user": user})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(apperrors.Unauthorized(utils.ErrNotLoggedIn))
		return
	}

	var request services.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.Error(apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.authService.UpdatePassword(c.Request.Context(), principal.ID, &request)
	if err != nil {
		c.Error(err)
		return
	}

	h.setTokenCookie(c, token)
	utils.TokenResponse(c, http.StatusOK, token, gin.H{"user": user})
}

// setTokenCookie mirrors the token into an httpOnly cookie so browser
// clients don't have to store it themselves.
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	maxAge := h.security.CookieTTLDays * 24 * 60 * 60
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("jwt", token, maxAge, "/", "", !h.isDev, true)
}
