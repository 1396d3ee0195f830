package routes

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/pkg/logger"
)

// SetupTourRoutes wires the tour resource, its aggregation reports and the
// nested review routes.
func SetupTourRoutes(
	r *gin.RouterGroup,
	tourHandler *handlers.TourHandler,
	reviewHandler *handlers.ReviewHandler,
	userRepo interfaces.UserRepository,
	jwtSecret string,
	log *logger.Logger,
) {
	protect := middleware.Protect(userRepo, jwtSecret, log)

	tours := r.Group("/tours")

	// Public reads
	tours.GET("", tourHandler.List)
	tours.GET("/top-5-cheap", tourHandler.TopCheap)
	tours.GET("/tour-stats", tourHandler.Stats)
	tours.GET("/:tourId", tourHandler.Get)

	tours.GET("/monthly-plan/:year",
		protect,
		middleware.RequireRoles(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
		tourHandler.MonthlyPlan,
	)

	// Mutations are restricted to tour management roles
	manage := tours.Group("")
	manage.Use(protect, middleware.RequireRoles(models.RoleAdmin, models.RoleLeadGuide))
	{
		manage.POST("", tourHandler.Create)
		manage.PATCH("/:tourId", tourHandler.Update)
		manage.DELETE("/:tourId", tourHandler.Delete)
	}

	// Nested reviews require a logged-in caller; posting needs the user role
	tours.GET("/:tourId/reviews", protect, reviewHandler.List)
	tours.POST("/:tourId/reviews",
		protect,
		middleware.RequireRoles(models.RoleUser),
		reviewHandler.Create,
	)
}
