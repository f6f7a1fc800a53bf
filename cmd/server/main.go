package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fitcourse/backend/internal/api"
	"fitcourse/backend/internal/config"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository/postgres"
	"fitcourse/backend/internal/service"
	"fitcourse/backend/internal/storage"
)

// @title FitCourse API
// @version 1.0
// @description API for fitness courses, enrollment calendars, recipes and support chat.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Logger ---
	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("starting fitcourse server")

	// --- Database Connection ---
	db, err := postgres.ConnectDB(cfg.Database.DSN)
	if err != nil {
		appLog.Fatal("could not connect to database", "error", err)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		appLog.Fatal("could not run migrations", "error", err)
	}
	appLog.Info("database connection established")

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize S3 storage", "error", err)
	}

	// --- Initialize Repositories ---
	userRepo := postgres.NewUserRepository(db)
	courseRepo := postgres.NewCourseRepository(db)
	workoutRepo := postgres.NewWorkoutRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)
	dailyPlanRepo := postgres.NewDailyPlanRepository(db)
	completionRepo := postgres.NewCompletionRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)
	chatRepo := postgres.NewChatRepository(db)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	courseService := service.NewCourseService(courseRepo, fileStorage, appLog)
	workoutService := service.NewWorkoutService(workoutRepo)
	completionService := service.NewCompletionService(completionRepo, dailyPlanRepo, appLog)
	calendarService := service.NewCalendarService(db, enrollmentRepo, dailyPlanRepo, completionService, appLog)
	enrollmentService := service.NewEnrollmentService(db, enrollmentRepo, courseRepo, dailyPlanRepo, completionRepo, calendarService, appLog)
	recipeService := service.NewRecipeService(recipeRepo, fileStorage, appLog)
	chatService := service.NewChatService(chatRepo, appLog)

	// --- Initialize Gin Engine ---
	if cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		courseService,
		workoutService,
		enrollmentService,
		completionService,
		recipeService,
		chatService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	appLog.Info("server starting", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("listen and serve error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Fatal("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
