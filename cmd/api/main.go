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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dsa-tracker/backend/internal/data"
	"github.com/dsa-tracker/backend/internal/handler"
	"github.com/dsa-tracker/backend/internal/infrastructure"
	"github.com/dsa-tracker/backend/internal/middleware"
	"github.com/dsa-tracker/backend/internal/repository"
	"github.com/dsa-tracker/backend/internal/service"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	config := infrastructure.LoadConfig()

	logger, err := infrastructure.NewLogger(config.Server.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.SyncLogger(logger)

	logger.Info("Starting DSA Tracker API",
		zap.String("environment", config.Server.Environment),
		zap.Int("port", config.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry, err := infrastructure.NewTelemetry(ctx, &config.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.CreateMetrics()
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		os.Exit(1)
	}

	database, err := infrastructure.NewDatabase(&config.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	seeder := data.NewSeeder(database.DB, logger)
	if err := seeder.SeedCurriculum(); err != nil {
		logger.Error("Failed to seed curriculum", zap.Error(err))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	topicRepo := repository.NewTopicRepository(database.DB)
	problemRepo := repository.NewProblemRepository(database.DB)
	progressRepo := repository.NewProgressRepository(database.DB)

	// Initialize services
	userService := service.NewUserService(userRepo, &config.JWT, telemetry.Tracer, logger)
	topicService := service.NewTopicService(topicRepo, progressRepo, telemetry.Tracer, logger)
	problemService := service.NewProblemService(problemRepo, topicRepo, progressRepo, telemetry.Tracer, logger)
	progressService := service.NewProgressService(progressRepo, problemRepo, telemetry.Tracer, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	topicHandler := handler.NewTopicHandler(topicService)
	problemHandler := handler.NewProblemHandler(problemService)
	progressHandler := handler.NewProgressHandler(progressService, metrics)

	if config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	router.Use(middleware.TracingMiddleware(telemetry.Tracer))
	router.Use(middleware.MetricsMiddleware(metrics))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": config.Telemetry.ServiceVersion,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.AuthMiddleware(userService)
	optionalAuth := middleware.OptionalAuthMiddleware(userService)

	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	// Topic routes: public reads with optional progress annotation,
	// authenticated mutations
	topics := router.Group("/topics")
	{
		topics.GET("", optionalAuth, topicHandler.GetTopics)
		topics.GET("/:id", optionalAuth, topicHandler.GetTopic)
		topics.POST("", requireAuth, topicHandler.CreateTopic)
		topics.PUT("/:id", requireAuth, topicHandler.UpdateTopic)
		topics.DELETE("/:id", requireAuth, topicHandler.DeleteTopic)
	}

	// Problem routes
	problems := router.Group("/problems")
	{
		problems.GET("", optionalAuth, problemHandler.GetProblems)
		problems.GET("/:id", optionalAuth, problemHandler.GetProblem)
		problems.POST("", requireAuth, problemHandler.CreateProblem)
		problems.PUT("/:id", requireAuth, problemHandler.UpdateProblem)
		problems.DELETE("/:id", requireAuth, problemHandler.DeleteProblem)
	}

	// Progress routes (all authenticated)
	progress := router.Group("/progress")
	progress.Use(requireAuth)
	{
		progress.GET("", progressHandler.GetProgress)
		progress.GET("/summary", progressHandler.GetSummary)
		progress.POST("/toggle/:problemId", progressHandler.ToggleProgress)
		progress.POST("/:problemId", progressHandler.MarkCompleted)
		progress.DELETE("", progressHandler.ResetProgress)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
