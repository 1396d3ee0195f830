package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gotours/internal/config"
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/repositories/mongodb"
	"gotours/internal/services"
	"gotours/pkg/cache"
	"gotours/pkg/database"
	"gotours/pkg/logger"
	"gotours/pkg/mailer"
	"gotours/routes"
)

func main() {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Colors:     cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Security.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.EnsureIndexes(db.Database); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	// Redis is optional; without it the user repository just skips caching.
	var userCache mongodb.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			defer redisCache.Close()
			userCache = redisCache
		}
	}

	emailSender := mailer.NewSMTPMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.FromEmail,
	)

	userRepo := mongodb.NewUserRepository(db.Database, userCache)
	tourRepo := mongodb.NewTourRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)

	authService := services.NewAuthService(userRepo, emailSender, cfg.Security, cfg.App.BaseURL, log)
	userService := services.NewUserService(userRepo, log)
	tourService := services.NewTourService(tourRepo, reviewRepo, log)
	reviewService := services.NewReviewService(reviewRepo, tourRepo, log)

	authHandler := handlers.NewAuthHandler(authService, cfg.Security, cfg.IsDevelopment())
	userHandler := handlers.NewUserHandler(userService)
	tourHandler := handlers.NewTourHandler(tourService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		log.WithError(err).Fatal("Invalid trusted proxy configuration")
	}

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log, cfg.IsDevelopment()),
		middleware.Recovery(log),
		middleware.SecurityHeaders(cfg.IsDevelopment()),
		middleware.CORS(),
		middleware.SanitizeQuery(),
	)

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit))

	routes.SetupUserRoutes(api, authHandler, userHandler, userRepo, cfg.Security.JWTSecret, log)
	routes.SetupTourRoutes(api, tourHandler, reviewHandler, userRepo, cfg.Security.JWTSecret, log)
	routes.SetupReviewRoutes(api, reviewHandler, userRepo, cfg.Security.JWTSecret, log)

	router.NoRoute(middleware.NotFoundHandler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}

	log.Info("Server stopped")
}
