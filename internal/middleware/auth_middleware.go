package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"gotours/internal/apperrors"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

// Context keys set by Protect.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// Protect authenticates the request. The token is read from the
// Authorization header or the jwt cookie, verified, and checked against the
// user's current state: the user must still exist and must not have changed
// their password after the token was issued.
func Protect(userRepo interfaces.UserRepository, secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWithError(c, apperrors.Unauthorized(utils.ErrNotLoggedIn))
			return
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.WithField("ip", c.ClientIP()).Info("Rejected expired token")
			} else {
				log.WithField("ip", c.ClientIP()).Warn("Rejected malformed token")
			}
			abortWithError(c, err)
			return
		}

		userID, err := utils.UserIDFromClaims(claims)
		if err != nil {
			abortWithError(c, apperrors.Unauthorized(utils.ErrTokenUserGone))
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, apperrors.Unauthorized(utils.ErrTokenUserGone))
			return
		}

		// The freshness check needs an issue time; a token without one
		// cannot be trusted.
		if claims.IssuedAt == nil || user.HasChangedPasswordAfter(claims.IssuedAt.Time) {
			abortWithError(c, apperrors.Unauthorized(utils.ErrStaleToken))
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// RequireRoles gates a route to the given roles. Must run after Protect.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, apperrors.Unauthorized(utils.ErrNotLoggedIn))
			return
		}

		if !user.HasAnyRole(roles...) {
			abortWithError(c, apperrors.Forbidden(utils.ErrNoPermission))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by Protect.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}

	return ""
}

func abortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}
