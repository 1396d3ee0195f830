package routes

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/pkg/logger"
)

// SetupReviewRoutes wires the flat review resource.
func SetupReviewRoutes(
	r *gin.RouterGroup,
	reviewHandler *handlers.ReviewHandler,
	userRepo interfaces.UserRepository,
	jwtSecret string,
	log *logger.Logger,
) {
	protect := middleware.Protect(userRepo, jwtSecret, log)

	reviews := r.Group("/reviews")

	// The flat listing stays open; single-review reads require a caller.
	reviews.GET("", reviewHandler.List)
	reviews.GET("/:id", protect, reviewHandler.Get)

	reviews.POST("",
		protect,
		middleware.RequireRoles(models.RoleUser),
		reviewHandler.Create,
	)

	// Ownership for non-admins is enforced in the service
	modify := reviews.Group("")
	modify.Use(protect, middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	{
		modify.PATCH("/:id", reviewHandler.Update)
		modify.DELETE("/:id", reviewHandler.Delete)
	}
}
