package routes

import (
	"github.com/gin-gonic/gin"

	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/pkg/logger"
)

// SetupUserRoutes wires the auth flows and the user resource.
func SetupUserRoutes(
	r *gin.RouterGroup,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	userRepo interfaces.UserRepository,
	jwtSecret string,
	log *logger.Logger,
) {
	users := r.Group("/users")

	// Open auth routes
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.POST("/forgot-password", authHandler.ForgotPassword)
	users.PATCH("/reset-password/:token", authHandler.ResetPassword)

	// Everything below requires authentication
	protected := users.Group("")
	protected.Use(middleware.Protect(userRepo, jwtSecret, log))
	{
		protected.PATCH("/update-password", authHandler.UpdatePassword)
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/update-user", userHandler.UpdateMe)
		protected.DELETE("/delete-user", userHandler.DeleteMe)
	}

	// Admin-only user management
	admin := users.Group("")
	admin.Use(middleware.Protect(userRepo, jwtSecret, log), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("", userHandler.List)
		admin.POST("", userHandler.Create)
		admin.GET("/:id", userHandler.Get)
		admin.PATCH("/:id", userHandler.Update)
		admin.DELETE("/:id", userHandler.Delete)
	}
}
